package services

import (
	"context"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// CatalogStore is the narrow persistence contract the ingestion pipeline and
// the query endpoints depend on. Implementations wrap every failure in a
// *StoreError.
type CatalogStore interface {
	// Create persists a validated draft and returns it with its assigned ID.
	// A record is either written in full or not at all.
	Create(ctx context.Context, draft entities.BookDraft) (*entities.Book, error)

	// ListAll returns every persisted book. Ordering is store-defined and
	// must not be relied upon.
	ListAll(ctx context.Context) ([]entities.Book, error)
}

// CatalogReader is the read-only half of CatalogStore.
// Use this interface when you only need to list books.
type CatalogReader interface {
	ListAll(ctx context.Context) ([]entities.Book, error)
}

// IngestResult contains the aggregate outcome of an ingestion run.
type IngestResult struct {
	TotalRows int
	Ingested  int
	Rejected  int
}

// IngestRecord describes one ingestion for the audit trail.
type IngestRecord struct {
	Origin   string
	Ingested int
	Rejected int
	BookID   *uint  // set for single-candidate ingestions that succeeded
	Summary  string // human-readable, e.g. "Dune by Frank Herbert"
	Err      error
}
