package models

import "time"

// FeedSource identifies one feed endpoint and the label its articles carry.
type FeedSource struct {
	Endpoint string `json:"url" yaml:"url"`
	Label    string `json:"label" yaml:"label"`
}

// RawItem holds the item fields exactly as they appear in the feed.
type RawItem struct {
	Title        string
	Link         string
	Description  string
	PublishedRaw string
}

// Article is the canonical record served to readers.
type Article struct {
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	URL          string    `json:"url"`
	PublishedAt  time.Time `json:"published_at"`
	RelativeTime string    `json:"relative_time"`
	Source       string    `json:"source"`
}

// HasValidDate reports whether the publish date could be parsed.
func (a Article) HasValidDate() bool {
	return !a.PublishedAt.IsZero()
}

// ArchivedArticle represents the document stored in Elasticsearch.
type ArchivedArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	IndexedAt   time.Time `json:"indexed_at"`
	Keywords    []string  `json:"keywords"`
}
