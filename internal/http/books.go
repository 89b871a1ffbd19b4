package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/importers"
	"github.com/mrlokans/bookcatalog/internal/services"
)

// maxFormMemory bounds the in-memory part of multipart form parsing.
const maxFormMemory = 32 << 20

type BooksController struct {
	reader   services.CatalogReader
	ingestor Ingestor
	pageSize int
}

func NewBooksController(reader services.CatalogReader, ingestor Ingestor, pageSize int) *BooksController {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &BooksController{
		reader:   reader,
		ingestor: ingestor,
		pageSize: pageSize,
	}
}

// GetAllBooks handles GET /api/books.
func (bc *BooksController) GetAllBooks(c *gin.Context) {
	books, err := bc.reader.ListAll(c.Request.Context())
	if err != nil {
		respondIngestError(c, err, "")
		return
	}
	if books == nil {
		books = []entities.Book{}
	}
	c.JSON(http.StatusOK, books)
}

// Browse handles GET /api/books/browse?q=&page_size=&visible=
// Returns the window a client showing `visible` books should render; to
// load more, repeat with visible + page_size.
func (bc *BooksController) Browse(c *gin.Context) {
	pageSize, ok := parseIntQuery(c, "page_size", bc.pageSize)
	if !ok {
		return
	}
	visible, ok := parseIntQuery(c, "visible", 0)
	if !ok {
		return
	}
	if visible < 0 {
		respondBadRequest(c, "invalid visible")
		return
	}

	books, err := bc.reader.ListAll(c.Request.Context())
	if err != nil {
		respondIngestError(c, err, "")
		return
	}

	view := catalog.Query(books, c.Query("q"), pageSize, visible)
	if view.Books == nil {
		view.Books = []entities.Book{}
	}
	c.JSON(http.StatusOK, view)
}

// CreateBook handles POST /api/books with a JSON body.
func (bc *BooksController) CreateBook(c *gin.Context) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		respondBadRequest(c, "request body must be a JSON object")
		return
	}

	bc.ingest(c, importers.JSONCandidate(fields))
}

// CreateBookForm handles POST /api/books/form (url-encoded or multipart).
func (bc *BooksController) CreateBookForm(c *gin.Context) {
	var err error
	if c.ContentType() == "multipart/form-data" {
		err = c.Request.ParseMultipartForm(maxFormMemory)
	} else {
		err = c.Request.ParseForm()
	}
	if err != nil {
		respondBadRequest(c, "invalid form submission")
		return
	}

	bc.ingest(c, importers.FormCandidate(c.Request.PostForm))
}

// ingest runs the candidate through the pipeline. A client disconnecting
// does not abort a write that has already started.
func (bc *BooksController) ingest(c *gin.Context, raw catalog.RawCandidate) {
	ctx := context.WithoutCancel(c.Request.Context())
	book, err := bc.ingestor.IngestOne(ctx, raw, importers.OriginManual)
	if err != nil {
		respondIngestError(c, err, "")
		return
	}
	respondCreated(c, book)
}
