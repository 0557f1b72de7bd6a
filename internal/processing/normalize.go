package processing

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/DeafMist/news-radar/internal/models"
)

const (
	FallbackTitle   = "No title"
	FallbackSummary = "No summary available"
	UnknownTime     = "unknown"
)

// tagPattern also eats an unterminated trailing "<..." fragment.
var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// StripTags removes every markup tag from s.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// Normalize maps a raw feed item to an Article. It never fails: missing
// values get fallbacks and an unparsable date becomes the zero time.
func Normalize(item models.RawItem, source string, now time.Time) models.Article {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = FallbackTitle
	}

	summary := strings.TrimSpace(StripTags(item.Description))
	if summary == "" {
		summary = FallbackSummary
	}

	published := ParsePublished(item.PublishedRaw)

	return models.Article{
		Title:        title,
		Summary:      summary,
		URL:          strings.TrimSpace(item.Link),
		PublishedAt:  published,
		RelativeTime: RelativeLabel(published, now),
		Source:       source,
	}
}

// ParsePublished accepts the date layouts found in the wild (RFC 1123 with
// or without zone, RFC 3339, ...). Strings without a zone are read as UTC.
// It returns the zero time when raw is empty or cannot be parsed.
func ParsePublished(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	ts, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return ts
}

const (
	minutesInDay   = 1440
	minutesInMonth = 43200
	minutesInYear  = 525600
)

// RelativeLabel describes t relative to now, e.g. "about 3 hours ago" or
// "in 5 minutes". The zero time yields UnknownTime.
func RelativeLabel(t, now time.Time) string {
	if t.IsZero() {
		return UnknownTime
	}

	diff := now.Sub(t)
	future := diff < 0
	if future {
		diff = -diff
	}

	distance := distanceInWords(diff)
	if future {
		return "in " + distance
	}
	return distance + " ago"
}

func distanceInWords(d time.Duration) string {
	minutes := int(math.Round(d.Seconds() / 60))

	switch {
	case minutes == 0:
		return "less than a minute"
	case minutes < 2:
		return "1 minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 90:
		return "about 1 hour"
	case minutes < minutesInDay:
		return fmt.Sprintf("about %d hours", roundDiv(minutes, 60))
	case minutes < 2520:
		return "1 day"
	case minutes < minutesInMonth:
		return fmt.Sprintf("%d days", roundDiv(minutes, minutesInDay))
	case minutes < 2*minutesInMonth:
		return plural("about %d month", roundDiv(minutes, minutesInMonth))
	case minutes < minutesInYear:
		return plural("%d month", roundDiv(minutes, minutesInMonth))
	}

	months := minutes / minutesInMonth
	years := months / 12
	switch rem := months % 12; {
	case rem < 3:
		return plural("about %d year", years)
	case rem < 9:
		return plural("over %d year", years)
	default:
		return plural("almost %d year", years+1)
	}
}

func roundDiv(n, d int) int {
	return int(math.Round(float64(n) / float64(d)))
}

func plural(format string, n int) string {
	s := fmt.Sprintf(format, n)
	if n != 1 {
		s += "s"
	}
	return s
}
