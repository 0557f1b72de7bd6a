package feed

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/DeafMist/news-radar/internal/models"
)

// Parse extracts the items of an RSS or Atom document. Missing fields are
// left empty. A document that cannot be parsed at all yields an error.
func Parse(body []byte) ([]models.RawItem, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]models.RawItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil {
			continue
		}
		published := it.Published
		if published == "" {
			published = it.Updated
		}
		items = append(items, models.RawItem{
			Title:        it.Title,
			Link:         it.Link,
			Description:  it.Description,
			PublishedRaw: published,
		})
	}
	return items, nil
}
