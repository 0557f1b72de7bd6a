package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/DeafMist/news-radar/internal/logger"
	"github.com/DeafMist/news-radar/internal/models"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 200
	maxSearchFrom     = 10_000
)

// Client wraps go-elasticsearch with the archive operations.
type Client struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
}

// SearchParams narrow an archive search.
type SearchParams struct {
	Query  string
	Source string
	From   int
	Size   int
	Since  *time.Time
}

// SearchResult bundles hits and total count.
type SearchResult struct {
	Total int64                    `json:"total"`
	Items []models.ArchivedArticle `json:"items"`
}

// New instantiates the Elasticsearch client.
func New(addr, index string, log *slog.Logger) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return &Client{es: es, index: index, log: logger.OrDiscard(log)}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}
	return nil
}

// EnsureIndex creates the archive index with its mapping unless it exists.
// Exact-match fields such as source are keywords, so a term filter on a
// label like "BBC News" matches the stored value as is.
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index failed: %s", res.Status())
	}

	payload, err := json.Marshal(indexMapping())
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg := readError(res.Body)
		if strings.Contains(msg, "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index failed: %s", msg)
	}
	c.log.Info("archive index created", slog.String("index", c.index))
	return nil
}

func indexMapping() map[string]any {
	return map[string]any{
		"mappings": map[string]any{
			"dynamic": "strict",
			"properties": map[string]any{
				"id":           map[string]any{"type": "keyword"},
				"title":        map[string]any{"type": "text"},
				"summary":      map[string]any{"type": "text"},
				"url":          map[string]any{"type": "keyword"},
				"source":       map[string]any{"type": "keyword"},
				"published_at": map[string]any{"type": "date"},
				"indexed_at":   map[string]any{"type": "date"},
				"keywords":     map[string]any{"type": "keyword"},
			},
		},
	}
}

// IndexArticle upserts an archived article under its ID.
func (c *Client) IndexArticle(ctx context.Context, doc models.ArchivedArticle) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("index article: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index article failed: %s", readError(res.Body))
	}
	return nil
}

// SearchArticles runs a full-text query over title and summary, newest first.
func (c *Client) SearchArticles(ctx context.Context, params SearchParams) (*SearchResult, error) {
	payload, err := json.Marshal(buildSearchBody(params))
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", readError(res.Body))
	}

	return decodeSearchResult(res.Body)
}

func normalizeParams(p SearchParams) SearchParams {
	if p.Size <= 0 {
		p.Size = defaultSearchSize
	}
	p.Size = min(p.Size, maxSearchSize)
	p.From = max(0, min(p.From, maxSearchFrom))
	p.Query = strings.TrimSpace(p.Query)
	p.Source = strings.TrimSpace(p.Source)
	return p
}

func buildSearchBody(params SearchParams) map[string]any {
	params = normalizeParams(params)

	must := make([]map[string]any, 0, 1)
	filters := make([]map[string]any, 0, 2)

	if params.Query != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  params.Query,
				"fields": []string{"title^2", "summary", "keywords"},
			},
		})
	}
	if params.Source != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"source": params.Source},
		})
	}
	if params.Since != nil {
		filters = append(filters, map[string]any{
			"range": map[string]any{
				"published_at": map[string]any{"gte": params.Since.UTC().Format(time.RFC3339)},
			},
		})
	}

	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	if len(must) == 0 && len(filters) == 0 {
		boolQuery["must"] = []map[string]any{{"match_all": map[string]any{}}}
	}

	return map[string]any{
		"from":             params.From,
		"size":             params.Size,
		"track_total_hits": true,
		"query":            map[string]any{"bool": boolQuery},
		"sort": []map[string]any{
			{"published_at": map[string]any{"order": "desc"}},
		},
	}
}

func decodeSearchResult(r io.Reader) (*SearchResult, error) {
	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.ArchivedArticle `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]models.ArchivedArticle, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		items = append(items, hit.Source)
	}
	return &SearchResult{Total: parsed.Hits.Total.Value, Items: items}, nil
}

// DeleteOlderThan removes articles published before now-maxAge in batches.
// It loops until a batch deletes fewer documents than batchSize.
func (c *Client) DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	payload, err := json.Marshal(buildDeleteBody(time.Now().Add(-maxAge)))
	if err != nil {
		return 0, fmt.Errorf("marshal delete body: %w", err)
	}

	var total int64
	for {
		deleted, err := c.deleteBatch(ctx, payload, batchSize)
		total += deleted
		if err != nil {
			return total, err
		}
		if deleted < int64(batchSize) {
			return total, nil
		}
	}
}

func (c *Client) deleteBatch(ctx context.Context, payload []byte, batchSize int) (int64, error) {
	res, err := c.es.DeleteByQuery(
		[]string{c.index},
		bytes.NewReader(payload),
		c.es.DeleteByQuery.WithContext(ctx),
		c.es.DeleteByQuery.WithWaitForCompletion(true),
		c.es.DeleteByQuery.WithConflicts("proceed"),
		c.es.DeleteByQuery.WithScrollSize(batchSize),
		c.es.DeleteByQuery.WithMaxDocs(batchSize),
	)
	if err != nil {
		return 0, fmt.Errorf("delete by query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("delete by query failed: %s", readError(res.Body))
	}

	var parsed struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode delete response: %w", err)
	}
	return parsed.Deleted, nil
}

func buildDeleteBody(cutoff time.Time) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"range": map[string]any{
				"published_at": map[string]any{"lt": cutoff.UTC().Format(time.RFC3339)},
			},
		},
	}
}

// Health checks cluster health.
func (c *Client) Health(ctx context.Context) error {
	res, err := c.es.Cluster.Health(c.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("cluster health bad: %s", readError(res.Body))
	}
	return nil
}

func readError(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	return strings.TrimSpace(string(data))
}
