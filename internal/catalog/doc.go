// Package catalog holds the book-record rules shared by every entry point:
// field coercion, whole-record validation and the search/pagination view over
// the persisted catalog.
//
// # Validation
//
// Raw candidates come from forms (all strings), JSON bodies and chat tool
// calls (typed values) and CSV rows (strings). They all go through the same
// path:
//
//	RawCandidate → CoerceText / CoerceNumber (per field) → Validator → entities.BookDraft
//
// Every field is checked; a rejected candidate yields a *ValidationError with
// one FieldError per violated field, ordered name, author, userRating,
// reviews, price, year, genre.
//
// # Browsing
//
// Query is a pure function of (catalog, term, pageSize, visibleCount).
// Browser keeps that state for interactive callers and Debouncer coalesces
// live keystrokes before a term is applied:
//
//	browser := catalog.NewBrowser(catalog.DefaultPageSize)
//	browser.SetCatalog(books)
//	search := catalog.NewDebouncer(catalog.DefaultDebounce, browser.SetTerm)
//	defer search.Stop()
package catalog
