package books

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "books.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func ptr[T any](v T) *T { return &v }

func TestRepository_Create(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	t.Run("assigns ID and keeps optional fields", func(t *testing.T) {
		book, err := repo.Create(ctx, entities.BookDraft{
			Name:       "Dune",
			Author:     "Frank Herbert",
			UserRating: ptr(4.5),
			Reviews:    ptr(int64(1200)),
			Price:      ptr(9.99),
			Year:       ptr(int64(1965)),
			Genre:      ptr("Fiction"),
		})
		require.NoError(t, err)
		assert.NotZero(t, book.ID)

		stored, err := repo.GetByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", stored.Name)
		require.NotNil(t, stored.UserRating)
		assert.Equal(t, 4.5, *stored.UserRating)
		require.NotNil(t, stored.Year)
		assert.Equal(t, int64(1965), *stored.Year)
	})

	t.Run("absent fields stay nil", func(t *testing.T) {
		book, err := repo.Create(ctx, entities.BookDraft{Name: "Emma", Author: "Jane Austen"})
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.UserRating)
		assert.Nil(t, stored.Reviews)
		assert.Nil(t, stored.Price)
		assert.Nil(t, stored.Year)
		assert.Nil(t, stored.Genre)
	})

	t.Run("zero is a value, not absence", func(t *testing.T) {
		book, err := repo.Create(ctx, entities.BookDraft{
			Name: "Free Book", Author: "Anon", Price: ptr(0.0), UserRating: ptr(0.0),
		})
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, book.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.Price)
		assert.Equal(t, 0.0, *stored.Price)
		require.NotNil(t, stored.UserRating)
	})
}

func TestRepository_CreateAssignsDistinctIDs(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	a, err := repo.Create(ctx, entities.BookDraft{Name: "A", Author: "X"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, entities.BookDraft{Name: "A", Author: "X"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestRepository_ListAll(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	books, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := repo.Create(ctx, entities.BookDraft{Name: name, Author: "Author"})
		require.NoError(t, err)
	}

	books, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "First", books[0].Name)
	assert.Equal(t, "Third", books[2].Name)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRepository_StoreErrors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.Create(ctx, entities.BookDraft{Name: "Dune", Author: "Frank Herbert"})
	var storeErr *services.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "create", storeErr.Op)

	_, err = repo.ListAll(ctx)
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "list", storeErr.Op)
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, entities.BookDraft{Name: "Dune", Author: "Frank Herbert"})
	var storeErr *services.StoreError
	assert.True(t, errors.As(err, &storeErr))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
