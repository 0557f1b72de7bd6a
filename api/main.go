package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DeafMist/news-radar/internal/aggregator"
	"github.com/DeafMist/news-radar/internal/broker"
	"github.com/DeafMist/news-radar/internal/config"
	"github.com/DeafMist/news-radar/internal/elasticsearch"
	"github.com/DeafMist/news-radar/internal/feed"
	"github.com/DeafMist/news-radar/internal/logger"
	"github.com/DeafMist/news-radar/internal/presentation"
	"github.com/DeafMist/news-radar/internal/refresh"
	"github.com/DeafMist/news-radar/internal/sources"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	registry, err := sources.Load(cfg.File, cfg.ProxyURL)
	if err != nil {
		log.Error("load feed registry", slog.Any("err", err))
		os.Exit(1)
	}

	fetcher := feed.NewHTTPFetcher(
		feed.WithTimeout(cfg.FetchTimeout),
		feed.WithUserAgent(cfg.UserAgent),
		feed.WithMaxBytes(cfg.FetchMaxBytes),
	)
	agg := aggregator.New(fetcher, aggregator.Options{
		Window:      cfg.RecencyWindow,
		Concurrency: cfg.FetchConcurrency,
	}, log)

	opts := []refresh.Option{refresh.WithInterval(cfg.RefreshInterval)}
	if cfg.PublishEnabled() {
		publisher := broker.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("close publisher", slog.Any("err", err))
			}
		}()
		opts = append(opts, refresh.WithSinks(publisher))
		log.Info("publishing collections", slog.String("topic", cfg.KafkaTopic))
	}
	scheduler := refresh.New(agg, registry, log, opts...)

	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = presentation.DefaultKeywords()
	}
	srv := &server{
		log:      log,
		cfg:      cfg,
		news:     scheduler,
		keywords: keywords,
	}
	if cfg.ArchiveEnabled() {
		esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
		if err != nil {
			log.Error("init elasticsearch", slog.Any("err", err))
			os.Exit(1)
		}
		srv.archive = esClient
	}

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      refreshWriteTimeout(cfg.FetchTimeout, len(registry), cfg.FetchConcurrency),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := scheduler.Start(ctx); err != nil {
		log.Error("start refresh scheduler", slog.Any("err", err))
		os.Exit(1)
	}
	defer scheduler.Stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr), slog.Int("sources", len(registry)))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

// refreshWriteTimeout leaves a manual refresh room for every wave of fetches:
// at most concurrency sources run at once, each bounded by fetchTimeout.
func refreshWriteTimeout(fetchTimeout time.Duration, sources, concurrency int) time.Duration {
	waves := 1
	if concurrency > 0 && sources > concurrency {
		waves = (sources + concurrency - 1) / concurrency
	}
	return time.Duration(waves)*fetchTimeout + 15*time.Second
}
