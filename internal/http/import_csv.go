package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/importers"
	"github.com/mrlokans/bookcatalog/internal/tasks"
)

type CSVImportController struct {
	importer  CSVImporter
	queue     TaskQueue
	uploadDir string
}

// NewCSVImportController creates the bulk import controller. queue may be
// nil, in which case only synchronous imports are available. Uploads for
// background imports are staged in uploadDir (the OS temp dir when empty).
func NewCSVImportController(importer CSVImporter, queue TaskQueue, uploadDir string) *CSVImportController {
	return &CSVImportController{
		importer:  importer,
		queue:     queue,
		uploadDir: uploadDir,
	}
}

type CSVImportOutcome struct {
	Index  int                  `json:"index"`
	Status string               `json:"status"` // "ingested" or "rejected"
	Book   *entities.Book       `json:"book,omitempty"`
	Errors []catalog.FieldError `json:"errors,omitempty"`
	Error  string               `json:"error,omitempty"`
}

type CSVImportResponse struct {
	TotalRows   int                `json:"total_rows"`
	Ingested    int                `json:"ingested"`
	Rejected    int                `json:"rejected"`
	Outcomes    []CSVImportOutcome `json:"outcomes"`
	ParseErrors []string           `json:"parse_errors"`
}

// Import handles POST /api/import/csv with a multipart "csv_file".
// With ?async=true the file is staged and imported by a background task.
func (ic *CSVImportController) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("csv_file")
	if err != nil {
		respondBadRequest(c, "No CSV file provided")
		return
	}
	defer file.Close()

	if c.Query("async") == "true" {
		ic.enqueue(c, file)
		return
	}

	// A client disconnect must not cut the batch short: every row is
	// processed and reported, as with single-book writes.
	result, err := ic.importer.ImportCSV(context.WithoutCancel(c.Request.Context()), file)
	if err != nil {
		respondBadRequest(c, fmt.Sprintf("Failed to parse CSV: %v", err))
		return
	}

	c.JSON(http.StatusOK, toCSVImportResponse(result))
}

func (ic *CSVImportController) enqueue(c *gin.Context, file io.Reader) {
	if ic.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "background tasks are disabled")
		return
	}

	staged, err := os.CreateTemp(ic.uploadDir, "catalog-import-*.csv")
	if err != nil {
		respondInternalError(c, err, "stage csv upload")
		return
	}
	path := staged.Name()

	_, copyErr := io.Copy(staged, file)
	closeErr := staged.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(path)
		respondInternalError(c, err, "stage csv upload")
		return
	}

	ids, err := ic.queue.Add(tasks.ImportCatalogTask{Path: path, RemoveAfter: true}).Save()
	if err != nil {
		os.Remove(path)
		respondInternalError(c, err, "enqueue csv import")
		return
	}

	respondAccepted(c, gin.H{"task_id": ids[0]})
}

// TaskStatus handles GET /api/import/tasks/:id
func (ic *CSVImportController) TaskStatus(c *gin.Context) {
	if ic.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "background tasks are disabled")
		return
	}

	taskID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := ic.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	statusStr := tasks.StatusString(status)
	if statusStr == "not_found" {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": statusStr,
	})
}

func toCSVImportResponse(result importers.CSVImportResult) CSVImportResponse {
	resp := CSVImportResponse{
		TotalRows:   len(result.Outcomes),
		Ingested:    result.Ingested,
		Rejected:    result.Rejected,
		Outcomes:    make([]CSVImportOutcome, 0, len(result.Outcomes)),
		ParseErrors: result.ParseErrors,
	}
	if resp.ParseErrors == nil {
		resp.ParseErrors = []string{}
	}

	for _, o := range result.Outcomes {
		out := CSVImportOutcome{Index: o.Index, Status: "ingested", Book: o.Book}
		if !o.Ingested() {
			out.Status = "rejected"
			out.Errors = o.Errors
			if len(o.Errors) == 0 && o.Err != nil {
				out.Error = "catalog store unavailable"
			}
		}
		resp.Outcomes = append(resp.Outcomes, out)
	}
	return resp
}
