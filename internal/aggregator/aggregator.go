package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DeafMist/news-radar/internal/feed"
	"github.com/DeafMist/news-radar/internal/logger"
	"github.com/DeafMist/news-radar/internal/metrics"
	"github.com/DeafMist/news-radar/internal/models"
	"github.com/DeafMist/news-radar/internal/processing"
)

// DefaultWindow is how far back an article may be published and still be kept.
const DefaultWindow = 48 * time.Hour

// ErrCollectFailed marks a refresh that failed as a whole, as opposed to
// individual sources failing.
var ErrCollectFailed = errors.New("collect articles")

// Fetcher retrieves the raw body of a feed endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
}

// Options tune an Aggregator. Zero values select the defaults.
type Options struct {
	Window      time.Duration
	Concurrency int
	Now         func() time.Time
}

// Aggregator builds one article collection out of every configured source.
type Aggregator struct {
	fetcher     Fetcher
	window      time.Duration
	concurrency int
	now         func() time.Time
	log         *slog.Logger
}

func New(fetcher Fetcher, opts Options, log *slog.Logger) *Aggregator {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{
		fetcher:     fetcher,
		window:      opts.Window,
		concurrency: opts.Concurrency,
		now:         opts.Now,
		log:         logger.OrDiscard(log),
	}
}

// Collect fetches every source concurrently and returns the recent articles
// in registry order. A failing source contributes nothing; only a done
// context fails the whole call.
func (a *Aggregator) Collect(ctx context.Context, sources []models.FeedSource) ([]models.Article, error) {
	now := a.now()
	batches := make([][]models.Article, len(sources))

	var g errgroup.Group
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}
	for i, src := range sources {
		g.Go(func() error {
			batches[i] = a.collectSource(ctx, src, now)
			return nil // a source failure never fails the batch
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCollectFailed, err)
	}

	total := 0
	for _, b := range batches {
		total += len(b)
	}
	merged := make([]models.Article, 0, total)
	for _, b := range batches {
		merged = append(merged, b...)
	}

	recent := FilterRecent(merged, now.Add(-a.window))
	a.log.Debug("collection built",
		slog.Int("sources", len(sources)),
		slog.Int("articles", len(merged)),
		slog.Int("recent", len(recent)),
	)
	return recent, nil
}

func (a *Aggregator) collectSource(ctx context.Context, src models.FeedSource, now time.Time) []models.Article {
	body, err := a.fetcher.Fetch(ctx, src.Endpoint)
	if err != nil {
		a.log.Warn("fetch feed failed",
			slog.String("source", src.Label),
			slog.String("endpoint", src.Endpoint),
			slog.Any("err", err),
		)
		metrics.RecordFeed(src.Label, metrics.FeedFetchError)
		return nil
	}

	items, err := feed.Parse(body)
	if err != nil {
		a.log.Warn("parse feed failed",
			slog.String("source", src.Label),
			slog.String("endpoint", src.Endpoint),
			slog.Any("err", err),
		)
		metrics.RecordFeed(src.Label, metrics.FeedParseError)
		return nil
	}
	metrics.RecordFeed(src.Label, metrics.FeedOK)

	articles := make([]models.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, processing.Normalize(item, src.Label, now))
	}
	return articles
}

// FilterRecent keeps articles with a valid publish date strictly after
// cutoff, preserving order.
func FilterRecent(articles []models.Article, cutoff time.Time) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for _, art := range articles {
		if art.HasValidDate() && art.PublishedAt.After(cutoff) {
			out = append(out, art)
		}
	}
	return out
}
