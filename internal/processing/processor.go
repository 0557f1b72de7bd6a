package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
)

var (
	urlRegex    = regexp.MustCompile(`https?://[^\s]+`)
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "in": {}, "for": {}, "of": {}, "on": {},
	"and": {}, "with": {}, "from": {}, "that": {}, "this": {}, "after": {}, "over": {},
	"said": {}, "says": {}, "were": {}, "have": {}, "has": {}, "been": {}, "will": {},
}

// CleanText decodes HTML entities, drops URLs and punctuation and squeezes whitespace.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = urlRegex.ReplaceAllString(decoded, " ")
	decoded = punctuation.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// ExtractKeywords returns the most frequent words that are not stop-words,
// ties broken alphabetically.
func ExtractKeywords(text string, limit, minLen int) []string {
	clean := strings.ToLower(CleanText(text))
	if clean == "" {
		return nil
	}

	freq := make(map[string]int)
	for _, token := range strings.Fields(clean) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(token)) < minLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		freq[token]++
	}
	if len(freq) == 0 {
		return nil
	}

	words := make([]string, 0, len(freq))
	for word := range freq {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] == freq[words[j]] {
			return words[i] < words[j]
		}
		return freq[words[i]] > freq[words[j]]
	})

	if limit > 0 && limit < len(words) {
		words = words[:limit]
	}
	return words
}

// BuildDocumentID hashes the fields that identify an article across refreshes.
func BuildDocumentID(url, title string, publishedAt time.Time) string {
	s := sha1.Sum([]byte(url + "|" + title + "|" + publishedAt.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(s[:])
}
