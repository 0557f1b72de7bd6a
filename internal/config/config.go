package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common contains the Kafka and Elasticsearch parameters shared by every service.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
	KafkaBrokers       []string
	KafkaTopic         string
}

// Feeds configures the ingestion pipeline that builds the article collection.
type Feeds struct {
	File             string
	ProxyURL         string
	RefreshInterval  time.Duration
	RecencyWindow    time.Duration
	FetchTimeout     time.Duration
	FetchConcurrency int
	FetchMaxBytes    int64
	UserAgent        string
}

// API describes the HTTP server together with the refresh pipeline it owns.
// Kafka publishing and the Elasticsearch archive stay disabled unless their
// addresses are set.
type API struct {
	Common
	Feeds
	BindAddr    string
	Keywords    []string
	DefaultPage int
	MaxPage     int
}

// PublishEnabled reports whether applied collections go to Kafka.
func (c *API) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// ArchiveEnabled reports whether the archive search endpoint is available.
func (c *API) ArchiveEnabled() bool {
	return c.ElasticsearchAddr != ""
}

// Worker holds configuration for the Kafka -> Elasticsearch archive worker.
type Worker struct {
	Common
	KafkaConsumer    string
	KeywordLimit     int
	KeywordMinLength int
	DedupeCapacity   int
	DedupeTTL        time.Duration
	BatchSize        int
}

// Retention configures the archive cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

const defaultIndex = "news_articles"

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", ""),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", defaultIndex),
			KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "")),
			KafkaTopic:         getEnv("KAFKA_TOPIC", defaultIndex),
		},
		Feeds: Feeds{
			File:             getEnv("FEEDS_FILE", ""),
			ProxyURL:         getEnv("FEED_PROXY_URL", ""),
			RefreshInterval:  getDuration("REFRESH_INTERVAL", "5m"),
			RecencyWindow:    getDuration("RECENCY_WINDOW", "48h"),
			FetchTimeout:     getDuration("FETCH_TIMEOUT", "20s"),
			FetchConcurrency: getInt("FETCH_CONCURRENCY", 16),
			FetchMaxBytes:    int64(getInt("FETCH_MAX_BYTES", 10<<20)),
			UserAgent:        getEnv("FETCH_USER_AGENT", "news-radar/1.0"),
		},
		BindAddr:    getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		Keywords:    splitAndTrim(getEnv("NEWS_KEYWORDS", "")),
		DefaultPage: getInt("API_PAGE_SIZE", 5),
		MaxPage:     getInt("API_MAX_PAGE_SIZE", 50),
	}

	if c.RefreshInterval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if c.RecencyWindow <= 0 {
		return nil, fmt.Errorf("RECENCY_WINDOW must be positive")
	}
	if c.FetchTimeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.FetchMaxBytes <= 0 {
		return nil, fmt.Errorf("FETCH_MAX_BYTES must be positive")
	}
	if c.DefaultPage <= 0 {
		return nil, fmt.Errorf("API_PAGE_SIZE must be positive")
	}
	if c.MaxPage <= 0 {
		return nil, fmt.Errorf("API_MAX_PAGE_SIZE must be positive")
	}
	if c.DefaultPage > c.MaxPage {
		return nil, fmt.Errorf("API_PAGE_SIZE cannot exceed API_MAX_PAGE_SIZE")
	}

	return c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	c := &Worker{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", defaultIndex),
			KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
			KafkaTopic:         getEnv("KAFKA_TOPIC", defaultIndex),
		},
		KafkaConsumer:    getEnv("KAFKA_CONSUMER_GROUP", "news-archive"),
		KeywordLimit:     getInt("WORKER_KEYWORD_LIMIT", 8),
		KeywordMinLength: getInt("WORKER_KEYWORD_MIN_LEN", 4),
		DedupeCapacity:   getInt("WORKER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:        getDuration("WORKER_DEDUPE_TTL", "48h"),
		BatchSize:        getInt("WORKER_BATCH_SIZE", 10),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}
	if c.KeywordLimit <= 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_LIMIT must be positive")
	}
	if c.KeywordMinLength < 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_MIN_LEN cannot be negative")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	c := &Retention{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", defaultIndex),
		},
		Interval:  getDuration("RETENTION_CRON", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "168h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_CRON must be positive")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// getDuration falls back when the variable does not parse; the fallback
// itself is a programmer constant and must be valid.
func getDuration(key, fallback string) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, fallback)); err == nil {
		return d
	}
	d, err := time.ParseDuration(fallback)
	if err != nil {
		panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, err))
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
