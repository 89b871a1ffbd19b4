// Package books provides database operations for the book catalog.
//
// This package implements the CatalogStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.CatalogStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.Create(ctx, draft)
package books

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/services"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a single book. Drafts carry no ID, so the store always
// assigns one. The insert is one statement, so a failed write leaves
// nothing behind.
func (r *Repository) Create(ctx context.Context, draft entities.BookDraft) (*entities.Book, error) {
	book := draft.ToBook()
	if err := r.db.WithContext(ctx).Create(&book).Error; err != nil {
		return nil, &services.StoreError{Op: "create", Err: err}
	}
	return &book, nil
}

// ListAll returns every book in insertion order.
func (r *Repository) ListAll(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error; err != nil {
		return nil, &services.StoreError{Op: "list", Err: err}
	}
	return books, nil
}

// GetByID retrieves one book.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Count returns the number of persisted books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&n).Error
	return n, err
}

var _ services.CatalogStore = (*Repository)(nil)
