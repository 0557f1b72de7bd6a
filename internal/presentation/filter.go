package presentation

import (
	"strings"

	"github.com/DeafMist/news-radar/internal/models"
)

// Filter narrows a collection for display.
type Filter struct {
	// Keywords is an allow-list: an article is kept when any keyword occurs
	// in its title or summary, ignoring case. Empty disables the check.
	Keywords []string
	// Source keeps only articles with this exact label when non-empty.
	Source string
}

// Apply returns the matching articles in their original order.
func (f Filter) Apply(articles []models.Article) []models.Article {
	keywords := lowerAll(f.Keywords)

	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if f.Source != "" && a.Source != f.Source {
			continue
		}
		if len(keywords) > 0 && !matchesAny(a, keywords) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// MatchesKeywords reports whether any keyword occurs in the article's title
// or summary, ignoring case.
func MatchesKeywords(a models.Article, keywords []string) bool {
	return matchesAny(a, lowerAll(keywords))
}

func matchesAny(a models.Article, lowered []string) bool {
	title := strings.ToLower(a.Title)
	summary := strings.ToLower(a.Summary)
	for _, kw := range lowered {
		if strings.Contains(title, kw) || strings.Contains(summary, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Sources lists the distinct source labels in first-seen order.
func Sources(articles []models.Article) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, a := range articles {
		if _, ok := seen[a.Source]; ok {
			continue
		}
		seen[a.Source] = struct{}{}
		out = append(out, a.Source)
	}
	return out
}
