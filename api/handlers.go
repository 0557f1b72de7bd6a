package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DeafMist/news-radar/internal/config"
	"github.com/DeafMist/news-radar/internal/elasticsearch"
	"github.com/DeafMist/news-radar/internal/presentation"
	"github.com/DeafMist/news-radar/internal/refresh"
)

type newsSource interface {
	Snapshot() refresh.Snapshot
	Refresh(ctx context.Context) refresh.Snapshot
}

type archiveSearcher interface {
	SearchArticles(ctx context.Context, params elasticsearch.SearchParams) (*elasticsearch.SearchResult, error)
	Health(ctx context.Context) error
}

type server struct {
	log      *slog.Logger
	cfg      *config.API
	news     newsSource
	archive  archiveSearcher
	keywords []string
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status      string     `json:"status"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Generation  uint64     `json:"generation"`
	Refreshing  bool       `json:"refreshing"`
	Archive     string     `json:"archive,omitempty"`
}

type newsResponse struct {
	presentation.Page
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	Refreshing bool       `json:"refreshing"`
}

type refreshResponse struct {
	Generation uint64    `json:"generation"`
	Articles   int       `json:"articles"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/news", s.handleNews)
	r.Get("/sources", s.handleSources)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/archive", s.handleArchive)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.news.Snapshot()
	resp := healthResponse{
		Status:      "ok",
		LastUpdated: timePtr(snap.UpdatedAt),
		Generation:  snap.Generation,
		Refreshing:  snap.Refreshing,
	}

	if s.archive != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		resp.Archive = "ok"
		if err := s.archive.Health(ctx); err != nil {
			s.log.Warn("archive health check failed", slog.Any("err", err))
			resp.Archive = "unavailable"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleNews(w http.ResponseWriter, r *http.Request) {
	snap := s.news.Snapshot()
	if snap.Failed() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: snap.Err})
		return
	}

	q := r.URL.Query()
	filter := presentation.Filter{
		Keywords: s.keywords,
		Source:   strings.TrimSpace(q.Get("source")),
	}
	page := clampInt(q.Get("page"), 1, math.MaxInt)
	size := clampInt(q.Get("size"), s.cfg.DefaultPage, s.cfg.MaxPage)

	writeJSON(w, http.StatusOK, newsResponse{
		Page:       presentation.Paginate(filter.Apply(snap.Articles), page, size),
		UpdatedAt:  timePtr(snap.UpdatedAt),
		Refreshing: snap.Refreshing,
	})
}

func (s *server) handleSources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"sources": presentation.Sources(s.news.Snapshot().Articles),
	})
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// a client disconnect must not abandon a refresh other readers will see
	snap := s.news.Refresh(context.WithoutCancel(r.Context()))
	if snap.Failed() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: snap.Err})
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Generation: snap.Generation,
		Articles:   len(snap.Articles),
		UpdatedAt:  snap.UpdatedAt,
	})
}

func (s *server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "archive is not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	params := elasticsearch.SearchParams{
		Query:  strings.TrimSpace(q.Get("q")),
		Source: strings.TrimSpace(q.Get("source")),
		From:   clampInt(q.Get("from"), 0, 10_000),
		Size:   clampInt(q.Get("size"), s.cfg.DefaultPage, s.cfg.MaxPage),
		Since:  parseTime(q.Get("since")),
	}

	result, err := s.archive.SearchArticles(ctx, params)
	if err != nil {
		s.log.Error("archive search", slog.Any("err", err), slog.String("request_id", middleware.GetReqID(r.Context())))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "archive search failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts
	}
	return nil
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
