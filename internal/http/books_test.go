package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/importers"
)

func newBooksRouter(f *catalogFixture, pageSize int) *gin.Engine {
	controller := NewBooksController(f.repo, f.pipeline, pageSize)

	router := gin.New()
	router.GET("/api/books", controller.GetAllBooks)
	router.GET("/api/books/browse", controller.Browse)
	router.POST("/api/books", controller.CreateBook)
	router.POST("/api/books/form", controller.CreateBookForm)
	return router
}

func seedBooks(t *testing.T, f *catalogFixture, pairs ...[2]string) {
	t.Helper()
	for _, p := range pairs {
		_, err := f.pipeline.IngestOne(context.Background(), catalog.RawCandidate{
			catalog.FieldName:   p[0],
			catalog.FieldAuthor: p[1],
		}, importers.OriginManual)
		require.NoError(t, err)
	}
}

func TestBooksController_GetAllBooks(t *testing.T) {
	t.Run("returns empty array when no books", func(t *testing.T) {
		f := setupCatalog(t)
		router := newBooksRouter(f, 5)

		w := get(router, "/api/books")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("returns all books", func(t *testing.T) {
		f := setupCatalog(t)
		seedBooks(t, f, [2]string{"Dune", "Frank Herbert"}, [2]string{"Emma", "Jane Austen"})
		router := newBooksRouter(f, 5)

		w := get(router, "/api/books")

		require.Equal(t, http.StatusOK, w.Code)
		var got []entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Dune", got[0].Name)
		assert.Equal(t, "Emma", got[1].Name)
	})

	t.Run("returns 503 when the store is down", func(t *testing.T) {
		f := setupCatalog(t)
		router := newBooksRouter(f, 5)
		require.NoError(t, f.db.Close())

		w := get(router, "/api/books")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), CodeStoreUnavailable)
	})
}

func TestBooksController_Browse(t *testing.T) {
	f := setupCatalog(t)
	seedBooks(t, f,
		[2]string{"Dune", "Frank Herbert"},
		[2]string{"Dune Messiah", "Frank Herbert"},
		[2]string{"Children of Dune", "Frank Herbert"},
		[2]string{"Emma", "Jane Austen"},
		[2]string{"Persuasion", "Jane Austen"},
	)
	router := newBooksRouter(f, 2)

	decode := func(t *testing.T, w *httptest.ResponseRecorder) catalog.View {
		t.Helper()
		require.Equal(t, http.StatusOK, w.Code)
		var view catalog.View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		return view
	}

	t.Run("first page uses controller page size", func(t *testing.T) {
		view := decode(t, get(router, "/api/books/browse"))

		assert.Len(t, view.Books, 2)
		assert.Equal(t, 5, view.TotalMatched)
		assert.Equal(t, 2, view.VisibleCount)
		assert.True(t, view.HasMore)
	})

	t.Run("filters case-insensitively by name or author", func(t *testing.T) {
		view := decode(t, get(router, "/api/books/browse?q=AUSTEN&page_size=5"))

		require.Len(t, view.Books, 2)
		assert.Equal(t, "Emma", view.Books[0].Name)
		assert.Equal(t, "Persuasion", view.Books[1].Name)
		assert.False(t, view.HasMore)
	})

	t.Run("visible reveals more matches", func(t *testing.T) {
		view := decode(t, get(router, "/api/books/browse?q=dune&visible=4"))

		assert.Len(t, view.Books, 3)
		assert.Equal(t, 3, view.TotalMatched)
		assert.False(t, view.HasMore)
	})

	t.Run("no matches returns empty array", func(t *testing.T) {
		w := get(router, "/api/books/browse?q=tolkien")
		view := decode(t, w)

		assert.Empty(t, view.Books)
		assert.Equal(t, 0, view.TotalMatched)
		assert.Contains(t, w.Body.String(), `"books":[]`)
	})

	t.Run("rejects malformed parameters", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(router, "/api/books/browse?page_size=abc").Code)
		assert.Equal(t, http.StatusBadRequest, get(router, "/api/books/browse?visible=-1").Code)
	})
}

func TestBooksController_CreateBook(t *testing.T) {
	t.Run("creates a valid book", func(t *testing.T) {
		f := setupCatalog(t)
		router := newBooksRouter(f, 5)

		w := postJSON(router, "/api/books", map[string]any{
			"name":       "  Dune ",
			"author":     "Frank Herbert",
			"userRating": "4.5",
			"year":       1965,
		})

		require.Equal(t, http.StatusCreated, w.Code)
		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.NotZero(t, book.ID)
		assert.Equal(t, "Dune", book.Name)
		require.NotNil(t, book.UserRating)
		assert.Equal(t, 4.5, *book.UserRating)
		require.NotNil(t, book.Year)
		assert.Equal(t, int64(1965), *book.Year)
		assert.Nil(t, book.Price)
		assert.Contains(t, w.Body.String(), `"price":null`)
	})

	t.Run("ignores a client supplied id", func(t *testing.T) {
		f := setupCatalog(t)
		router := newBooksRouter(f, 5)

		w := postJSON(router, "/api/books", map[string]any{
			"id":     999,
			"name":   "Emma",
			"author": "Jane Austen",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.NotEqual(t, uint(999), book.ID)
	})

	t.Run("rejects invalid candidate with every field error", func(t *testing.T) {
		f := setupCatalog(t)
		router := newBooksRouter(f, 5)

		w := postJSON(router, "/api/books", map[string]any{
			"name":       "   ",
			"author":     "Someone",
			"userRating": 7,
			"price":      "abc",
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp struct {
			Code    string               `json:"code"`
			Details []catalog.FieldError `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeValidationFailed, resp.Code)
		require.Len(t, resp.Details, 3)
		assert.Equal(t, catalog.FieldName, resp.Details[0].Field)
		assert.Equal(t, catalog.FieldUserRating, resp.Details[1].Field)
		assert.Equal(t, catalog.FieldPrice, resp.Details[2].Field)
		assert.Equal(t, catalog.KindCoercion, resp.Details[2].Kind)

		all, err := f.repo.ListAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("rejects a body that is not an object", func(t *testing.T) {
		f := setupCatalog(t)
		router := newBooksRouter(f, 5)

		assert.Equal(t, http.StatusBadRequest, postJSON(router, "/api/books", "[1,2]").Code)
		assert.Equal(t, http.StatusBadRequest, postJSON(router, "/api/books", "null").Code)
		assert.Equal(t, http.StatusBadRequest, postJSON(router, "/api/books", "{bad").Code)
	})

	t.Run("returns 503 when the store is down", func(t *testing.T) {
		f := setupCatalog(t)
		router := newBooksRouter(f, 5)
		require.NoError(t, f.db.Close())

		w := postJSON(router, "/api/books", map[string]any{"name": "Dune", "author": "Frank Herbert"})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestBooksController_CreateBookForm(t *testing.T) {
	f := setupCatalog(t)
	router := newBooksRouter(f, 5)

	form := url.Values{}
	form.Set("name", "Persuasion")
	form.Set("author", "Jane Austen")
	form.Set("price", "")
	form.Set("reviews", "1200")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/books/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	assert.Equal(t, "Persuasion", book.Name)
	assert.Nil(t, book.Price)
	require.NotNil(t, book.Reviews)
	assert.Equal(t, int64(1200), *book.Reviews)
}
