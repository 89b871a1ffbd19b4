package catalog

import (
	"strings"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// DefaultPageSize is the number of books revealed per "load more" step.
const DefaultPageSize = 5

// View is one paginated window over the filtered catalog.
type View struct {
	Books        []entities.Book `json:"books"`
	TotalMatched int             `json:"total_matched"`
	VisibleCount int             `json:"visible_count"`
	HasMore      bool            `json:"has_more"`
}

// Matches reports whether term occurs in the book's name or author,
// ignoring case. The term is matched as typed, surrounding spaces included;
// an empty or whitespace-only term matches every book.
func Matches(book entities.Book, term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(book.Name), needle) ||
		strings.Contains(strings.ToLower(book.Author), needle)
}

// Filter returns the books matching term in their original order.
// The input slice is not modified.
func Filter(books []entities.Book, term string) []entities.Book {
	if strings.TrimSpace(term) == "" {
		return books
	}
	matched := make([]entities.Book, 0, len(books))
	for _, b := range books {
		if Matches(b, term) {
			matched = append(matched, b)
		}
	}
	return matched
}

// Query filters the catalog by term and returns the first visibleCount
// matches. A non-positive pageSize falls back to DefaultPageSize, and
// visibleCount is never smaller than one page.
func Query(books []entities.Book, term string, pageSize, visibleCount int) View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if visibleCount < pageSize {
		visibleCount = pageSize
	}

	matched := Filter(books, term)
	end := min(visibleCount, len(matched))

	visible := make([]entities.Book, end)
	copy(visible, matched[:end])

	return View{
		Books:        visible,
		TotalMatched: len(matched),
		VisibleCount: visibleCount,
		HasMore:      visibleCount < len(matched),
	}
}
