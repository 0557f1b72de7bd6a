package aggregator_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/news-radar/internal/aggregator"
	"github.com/DeafMist/news-radar/internal/feed"
	"github.com/DeafMist/news-radar/internal/models"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

type rssItem struct {
	title   string
	link    string
	desc    string
	pubDate string
}

func rssDoc(items ...rssItem) string {
	body := `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title><link>https://x.example</link><description>d</description>`
	for _, it := range items {
		body += "<item>"
		if it.title != "" {
			body += "<title>" + it.title + "</title>"
		}
		if it.link != "" {
			body += "<link>" + it.link + "</link>"
		}
		if it.desc != "" {
			body += "<description><![CDATA[" + it.desc + "]]></description>"
		}
		if it.pubDate != "" {
			body += "<pubDate>" + it.pubDate + "</pubDate>"
		}
		body += "</item>"
	}
	return body + "</channel></rss>"
}

func ago(d time.Duration) string {
	return now.Add(-d).Format(time.RFC1123Z)
}

// stubFetcher serves canned bodies keyed by endpoint.
type stubFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func (s *stubFetcher) Fetch(_ context.Context, endpoint string) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, endpoint)
	s.mu.Unlock()

	if err, ok := s.errs[endpoint]; ok {
		return nil, err
	}
	body, ok := s.bodies[endpoint]
	if !ok {
		return nil, fmt.Errorf("no body for %s", endpoint)
	}
	return []byte(body), nil
}

func newAggregator(f aggregator.Fetcher) *aggregator.Aggregator {
	return aggregator.New(f, aggregator.Options{Now: fixedClock, Concurrency: 4}, nil)
}

func TestCollectScenarioFailingSourceIsIsolated(t *testing.T) {
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssDoc(rssItem{title: "T1", link: "https://a.example/1", pubDate: ago(time.Hour)})))
	}))
	defer okSrv.Close()

	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer badSrv.Close()

	agg := newAggregator(feed.NewHTTPFetcher())
	got, err := agg.Collect(context.Background(), []models.FeedSource{
		{Endpoint: okSrv.URL, Label: "X"},
		{Endpoint: badSrv.URL, Label: "Y"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "X", got[0].Source)
	require.Equal(t, "T1", got[0].Title)
	require.Equal(t, "about 1 hour ago", got[0].RelativeTime)
	for _, a := range got {
		require.NotEqual(t, "Y", a.Source)
	}
}

func TestCollectTimeoutSourceIsIsolated(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssDoc(rssItem{title: "Fast", pubDate: ago(time.Minute)})))
	}))
	defer fast.Close()

	agg := newAggregator(feed.NewHTTPFetcher(feed.WithTimeout(50 * time.Millisecond)))
	got, err := agg.Collect(context.Background(), []models.FeedSource{
		{Endpoint: slow.URL, Label: "Slow"},
		{Endpoint: fast.URL, Label: "Fast"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Fast", got[0].Source)
}

func TestCollectKeepsRegistryOrder(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{
		"a": rssDoc(
			rssItem{title: "A1", pubDate: ago(3 * time.Hour)},
			rssItem{title: "A2", pubDate: ago(time.Hour)},
		),
		"b": rssDoc(rssItem{title: "B1", pubDate: ago(2 * time.Minute)}),
		"c": rssDoc(rssItem{title: "C1", pubDate: ago(10 * time.Hour)}),
	}}

	got, err := newAggregator(f).Collect(context.Background(), []models.FeedSource{
		{Endpoint: "c", Label: "C"},
		{Endpoint: "a", Label: "A"},
		{Endpoint: "b", Label: "B"},
	})
	require.NoError(t, err)

	titles := make([]string, 0, len(got))
	for _, a := range got {
		titles = append(titles, a.Title)
	}
	require.Equal(t, []string{"C1", "A1", "A2", "B1"}, titles)
}

func TestCollectRecencyCutoff(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{
		"a": rssDoc(
			rssItem{title: "fresh", pubDate: ago(47 * time.Hour)},
			rssItem{title: "boundary", pubDate: ago(48 * time.Hour)},
			rssItem{title: "stale", pubDate: ago(49 * time.Hour)},
			rssItem{title: "undated"},
			rssItem{title: "garbled", pubDate: "yesterday-ish"},
		),
	}}

	got, err := newAggregator(f).Collect(context.Background(), []models.FeedSource{{Endpoint: "a", Label: "A"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "fresh", got[0].Title)
}

func TestCollectNoDeduplication(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{
		"a": rssDoc(rssItem{title: "Same", link: "https://a.example/1", pubDate: ago(time.Hour)}),
	}}

	got, err := newAggregator(f).Collect(context.Background(), []models.FeedSource{
		{Endpoint: "a", Label: "A"},
		{Endpoint: "a", Label: "A"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, got[0], got[1])
}

func TestCollectParseFailureIsIsolated(t *testing.T) {
	f := &stubFetcher{
		bodies: map[string]string{
			"broken": "<html><body>not a feed",
			"ok":     rssDoc(rssItem{title: "ok", pubDate: ago(time.Hour)}),
		},
		errs: map[string]error{"down": errors.New("connection refused")},
	}

	got, err := newAggregator(f).Collect(context.Background(), []models.FeedSource{
		{Endpoint: "broken", Label: "Broken"},
		{Endpoint: "down", Label: "Down"},
		{Endpoint: "ok", Label: "OK"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "OK", got[0].Source)
	require.Len(t, f.calls, 3)
}

func TestCollectIsIdempotent(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{
		"a": rssDoc(
			rssItem{title: "A1", desc: "<p>one</p>", pubDate: ago(time.Hour)},
			rssItem{title: "A2", pubDate: ago(2 * time.Hour)},
		),
		"b": rssDoc(rssItem{title: "B1", pubDate: ago(5 * time.Minute)}),
	}}
	agg := newAggregator(f)
	registry := []models.FeedSource{{Endpoint: "a", Label: "A"}, {Endpoint: "b", Label: "B"}}

	first, err := agg.Collect(context.Background(), registry)
	require.NoError(t, err)
	second, err := agg.Collect(context.Background(), registry)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCollectEmptyRegistry(t *testing.T) {
	got, err := newAggregator(&stubFetcher{}).Collect(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCollectCanceledContextFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAggregator(&stubFetcher{}).Collect(ctx, []models.FeedSource{{Endpoint: "a", Label: "A"}})
	require.ErrorIs(t, err, aggregator.ErrCollectFailed)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFilterRecent(t *testing.T) {
	cutoff := now.Add(-48 * time.Hour)
	in := []models.Article{
		{Title: "in", PublishedAt: cutoff.Add(time.Second)},
		{Title: "equal", PublishedAt: cutoff},
		{Title: "zero"},
	}
	got := aggregator.FilterRecent(in, cutoff)
	require.Len(t, got, 1)
	require.Equal(t, "in", got[0].Title)
}
