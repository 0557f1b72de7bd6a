package refresh_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/news-radar/internal/models"
	"github.com/DeafMist/news-radar/internal/refresh"
)

type result struct {
	articles []models.Article
	err      error
}

// scriptedCollector returns queued results; a call blocks until its result is pushed.
type scriptedCollector struct {
	results chan result
	calls   atomic.Int32
}

func newScripted() *scriptedCollector {
	return &scriptedCollector{results: make(chan result, 16)}
}

func (c *scriptedCollector) Collect(ctx context.Context, _ []models.FeedSource) ([]models.Article, error) {
	c.calls.Add(1)
	select {
	case r := <-c.results:
		return r.articles, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// gatedCollector hands each call its own release channel, in call order.
type gatedCollector struct {
	mu      sync.Mutex
	gates   []chan result
	entered chan int
}

func newGated() *gatedCollector {
	return &gatedCollector{entered: make(chan int, 16)}
}

func (c *gatedCollector) Collect(ctx context.Context, _ []models.FeedSource) ([]models.Article, error) {
	gate := make(chan result, 1)
	c.mu.Lock()
	c.gates = append(c.gates, gate)
	idx := len(c.gates) - 1
	c.mu.Unlock()
	c.entered <- idx

	r := <-gate
	return r.articles, r.err
}

func (c *gatedCollector) release(idx int, r result) {
	c.mu.Lock()
	gate := c.gates[idx]
	c.mu.Unlock()
	gate <- r
}

type recordingSink struct {
	mu      sync.Mutex
	batches [][]models.Article
	ids     []string
	err     error
}

func (s *recordingSink) Publish(_ context.Context, refreshID string, articles []models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, refreshID)
	s.batches = append(s.batches, articles)
	return s.err
}

func articles(titles ...string) []models.Article {
	out := make([]models.Article, 0, len(titles))
	for _, t := range titles {
		out = append(out, models.Article{Title: t, Source: "X"})
	}
	return out
}

func TestRefreshAppliesCollection(t *testing.T) {
	c := newScripted()
	sink := &recordingSink{}
	clock := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s := refresh.New(c, nil, nil, refresh.WithSinks(sink), refresh.WithClock(func() time.Time { return clock }))

	c.results <- result{articles: articles("T1", "T2")}
	snap := s.Refresh(context.Background())

	require.False(t, snap.Failed())
	require.Equal(t, uint64(1), snap.Generation)
	require.Equal(t, clock, snap.UpdatedAt)
	require.Len(t, snap.Articles, 2)
	require.False(t, snap.Refreshing)
	require.Equal(t, snap, s.Snapshot())

	require.Len(t, sink.batches, 1)
	require.Len(t, sink.batches[0], 2)
	require.NotEmpty(t, sink.ids[0])
}

func TestRefreshFailureKeepsPreviousArticles(t *testing.T) {
	c := newScripted()
	sink := &recordingSink{}
	s := refresh.New(c, nil, nil, refresh.WithSinks(sink))

	c.results <- result{articles: articles("T1")}
	first := s.Refresh(context.Background())

	c.results <- result{err: errors.New("orchestration broke")}
	snap := s.Refresh(context.Background())

	require.True(t, snap.Failed())
	require.Equal(t, refresh.FailureMessage, snap.Err)
	require.Equal(t, uint64(2), snap.Generation)
	require.Equal(t, first.Articles, snap.Articles)
	require.Equal(t, first.UpdatedAt, snap.UpdatedAt)
	require.Len(t, sink.batches, 1, "failed refreshes are not published")

	c.results <- result{articles: articles("T3")}
	snap = s.Refresh(context.Background())
	require.False(t, snap.Failed())
	require.Equal(t, "T3", snap.Articles[0].Title)
}

func TestSinkErrorDoesNotFailRefresh(t *testing.T) {
	c := newScripted()
	s := refresh.New(c, nil, nil, refresh.WithSinks(&recordingSink{err: errors.New("kafka down")}))

	c.results <- result{articles: articles("T1")}
	snap := s.Refresh(context.Background())
	require.False(t, snap.Failed())
	require.Len(t, snap.Articles, 1)
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	c := newGated()
	s := refresh.New(c, nil, nil)

	olderDone := make(chan refresh.Snapshot, 1)
	go func() { olderDone <- s.Refresh(context.Background()) }()
	require.Equal(t, 0, <-c.entered)

	newerDone := make(chan refresh.Snapshot, 1)
	go func() { newerDone <- s.Refresh(context.Background()) }()
	require.Equal(t, 1, <-c.entered)

	require.Eventually(t, func() bool { return s.Snapshot().Refreshing }, time.Second, 5*time.Millisecond)

	c.release(1, result{articles: articles("newer")})
	newer := <-newerDone
	require.Equal(t, uint64(2), newer.Generation)
	require.Equal(t, "newer", newer.Articles[0].Title)

	c.release(0, result{articles: articles("older")})
	older := <-olderDone
	require.Equal(t, uint64(2), older.Generation)
	require.Equal(t, "newer", older.Articles[0].Title)
	require.Equal(t, "newer", s.Snapshot().Articles[0].Title)
	require.False(t, s.Snapshot().Refreshing)
}

func TestStartRefreshesImmediatelyAndStopReleases(t *testing.T) {
	c := newScripted()
	s := refresh.New(c, nil, nil, refresh.WithInterval(time.Hour))

	c.results <- result{articles: articles("boot")}
	require.NoError(t, s.Start(context.Background()))
	require.ErrorIs(t, s.Start(context.Background()), refresh.ErrAlreadyStarted)

	require.Eventually(t, func() bool {
		return s.Snapshot().Generation == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "boot", s.Snapshot().Articles[0].Title)

	s.Stop()
	s.Stop()

	// a stopped scheduler can be started again
	c.results <- result{articles: articles("again")}
	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool {
		return s.Snapshot().Generation == 2
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestTickerDrivesRefreshes(t *testing.T) {
	c := newScripted()
	for range 5 {
		c.results <- result{articles: articles("tick")}
	}
	s := refresh.New(c, nil, nil, refresh.WithInterval(10*time.Millisecond))

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return c.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	calls := c.calls.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, calls, c.calls.Load(), "no refresh runs after Stop")
}

func TestStopAbandonsInflightRefresh(t *testing.T) {
	c := newScripted()
	s := refresh.New(c, nil, nil, refresh.WithInterval(time.Hour))

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return c.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	snap := s.Snapshot()
	require.False(t, snap.Failed())
	require.Equal(t, uint64(0), snap.Generation)
	require.False(t, snap.Refreshing)
}
