package catalog

import (
	"sync"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Browser holds the state behind a search box and a "load more" control:
// the catalog as last fetched, the applied search term and the visible count.
// The catalog is owned by the caller and replaced wholesale with SetCatalog.
type Browser struct {
	mu       sync.RWMutex
	books    []entities.Book
	term     string
	pageSize int
	visible  int
}

// NewBrowser creates a browser showing one page of pageSize books.
func NewBrowser(pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Browser{pageSize: pageSize, visible: pageSize}
}

// SetCatalog replaces the catalog. The term and visible count are kept.
func (b *Browser) SetCatalog(books []entities.Book) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.books = books
}

// SetTerm applies a search term and resets the visible count to one page.
func (b *Browser) SetTerm(term string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.term = term
	b.visible = b.pageSize
}

// Term returns the applied search term.
func (b *Browser) Term() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.term
}

// LoadMore reveals one more page. It reports false, and changes nothing,
// when every match is already visible.
func (b *Browser) LoadMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.visible >= len(Filter(b.books, b.term)) {
		return false
	}
	b.visible += b.pageSize
	return true
}

// View returns the current window.
func (b *Browser) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Query(b.books, b.term, b.pageSize, b.visible)
}
