// Package metrics provides Prometheus metrics for the refresh pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed fetch outcomes.
const (
	FeedOK         = "ok"
	FeedFetchError = "fetch_error"
	FeedParseError = "parse_error"
)

var (
	// RefreshTotal counts refresh attempts by outcome.
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsradar",
			Name:      "refresh_total",
			Help:      "Total number of collection refreshes",
		},
		[]string{"status"},
	)

	// RefreshDuration measures how long building a collection takes.
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newsradar",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of collection refreshes in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	// CollectionArticles is the size of the collection shown to readers.
	CollectionArticles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "newsradar",
			Name:      "collection_articles",
			Help:      "Number of articles in the current collection",
		},
	)

	// FeedFetchTotal counts per-source fetch outcomes.
	FeedFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsradar",
			Name:      "feed_fetch_total",
			Help:      "Total number of feed fetches by source and outcome",
		},
		[]string{"source", "status"},
	)
)

// RecordRefresh records one refresh attempt.
func RecordRefresh(status string, seconds float64) {
	RefreshTotal.WithLabelValues(status).Inc()
	RefreshDuration.Observe(seconds)
}

// SetCollectionSize records the size of an applied collection.
func SetCollectionSize(n int) {
	CollectionArticles.Set(float64(n))
}

// RecordFeed records the outcome of one source within a refresh.
func RecordFeed(source, status string) {
	FeedFetchTotal.WithLabelValues(source, status).Inc()
}
