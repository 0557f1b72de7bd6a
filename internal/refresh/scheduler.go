package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DeafMist/news-radar/internal/logger"
	"github.com/DeafMist/news-radar/internal/metrics"
	"github.com/DeafMist/news-radar/internal/models"
)

const (
	// DefaultInterval is the period of the timer-driven refresh.
	DefaultInterval = 5 * time.Minute

	// FailureMessage is what readers see when a refresh fails as a whole.
	FailureMessage = "Failed to fetch news"
)

// ErrAlreadyStarted is returned by Start on a running scheduler.
var ErrAlreadyStarted = errors.New("refresh scheduler already started")

// Collector builds a fresh article collection.
type Collector interface {
	Collect(ctx context.Context, sources []models.FeedSource) ([]models.Article, error)
}

// Sink receives every collection that gets applied.
type Sink interface {
	Publish(ctx context.Context, refreshID string, articles []models.Article) error
}

// Snapshot is the collection currently shown to readers.
type Snapshot struct {
	Articles   []models.Article
	UpdatedAt  time.Time
	Generation uint64
	Err        string
	Refreshing bool
}

// Failed reports whether the last applied refresh failed.
func (s Snapshot) Failed() bool {
	return s.Err != ""
}

// Scheduler refreshes the collection on a fixed interval and on demand.
// Refreshes may overlap; a result is applied only if no newer refresh has
// been applied already.
type Scheduler struct {
	collector Collector
	sources   []models.FeedSource
	interval  time.Duration
	sinks     []Sink
	now       func() time.Time
	log       *slog.Logger

	mu       sync.RWMutex
	snapshot Snapshot
	issued   uint64
	inflight int

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSinks registers sinks notified after each applied refresh.
func WithSinks(sinks ...Sink) Option {
	return func(s *Scheduler) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// WithClock replaces time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func New(collector Collector, sources []models.FeedSource, log *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		collector: collector,
		sources:   sources,
		interval:  DefaultInterval,
		now:       time.Now,
		log:       logger.OrDiscard(log),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs one refresh immediately and then one per interval until Stop
// is called or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.done != nil {
		return ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(loopCtx, s.done)

	s.log.Info("refresh scheduler started", slog.Duration("interval", s.interval), slog.Int("sources", len(s.sources)))
	return nil
}

// Stop cancels the loop and waits for it to exit. The timer is released
// before Stop returns. Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.done == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil

	s.log.Info("refresh scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh rebuilds the collection now and returns the snapshot visible
// afterwards, which is a newer one when an overlapping refresh won.
func (s *Scheduler) Refresh(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.inflight++
	s.mu.Unlock()

	refreshID := uuid.NewString()
	log := s.log.With(slog.String("refresh_id", refreshID), slog.Uint64("generation", gen))
	started := s.now()

	articles, err := s.collector.Collect(ctx, s.sources)

	s.mu.Lock()
	s.inflight--
	abandoned := err != nil && ctx.Err() != nil
	applied := !abandoned && gen > s.snapshot.Generation
	if applied {
		next := Snapshot{
			Articles:   s.snapshot.Articles,
			UpdatedAt:  s.snapshot.UpdatedAt,
			Generation: gen,
		}
		if err != nil {
			next.Err = FailureMessage
		} else {
			next.Articles = articles
			next.UpdatedAt = s.now()
		}
		s.snapshot = next
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	took := s.now().Sub(started)
	switch {
	case abandoned:
		log.Info("refresh abandoned", slog.Any("err", err))
		metrics.RecordRefresh("abandoned", took.Seconds())
	case !applied:
		log.Info("stale refresh discarded", slog.Uint64("current_generation", snap.Generation))
		metrics.RecordRefresh("stale", took.Seconds())
	case err != nil:
		log.Error("refresh failed", slog.Any("err", err))
		metrics.RecordRefresh("failed", took.Seconds())
	default:
		log.Info("refresh applied", slog.Int("articles", len(articles)), slog.Duration("took", took))
		metrics.RecordRefresh("applied", took.Seconds())
		metrics.SetCollectionSize(len(articles))
		s.publish(ctx, log, refreshID, articles)
	}

	return snap
}

func (s *Scheduler) publish(ctx context.Context, log *slog.Logger, refreshID string, articles []models.Article) {
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, refreshID, articles); err != nil {
			log.Warn("publish collection failed", slog.Any("err", err))
		}
	}
}

// Snapshot returns the collection currently shown to readers.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Scheduler) snapshotLocked() Snapshot {
	snap := s.snapshot
	snap.Refreshing = s.inflight > 0
	return snap
}
