package presentation

import "github.com/DeafMist/news-radar/internal/models"

// Page is one slice of a filtered collection.
type Page struct {
	Items      []models.Article `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

// Paginate returns the 1-based page of the given size. Pages past the end
// are empty; page and size below 1 are treated as 1.
func Paginate(articles []models.Article, page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	total := len(articles)
	pages := total / size
	if total%size != 0 {
		pages++
	}
	p := Page{
		Items:      []models.Article{},
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
	}

	// compare page numbers before multiplying so huge values cannot overflow
	if page > pages {
		return p
	}
	start := (page - 1) * size
	p.Items = articles[start : start+min(size, total-start)]
	return p
}
