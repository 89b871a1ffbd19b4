package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/services"
)

// Machine-readable error codes.
const (
	CodeValidationFailed = "validation_failed"
	CodeStoreUnavailable = "store_unavailable"
	CodeRateLimited      = "rate_limited"
	CodeAssistantFailed  = "assistant_failed"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	slog.Error("Internal error", "context", context, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
// Use the specific helpers (respondBadRequest, respondNotFound, etc.) when possible.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondIngestError maps a pipeline error to a response. Validation
// failures are the caller's fault (422 with per-field details); store
// failures are ours (503). message overrides the default summary.
func respondIngestError(c *gin.Context, err error, message string) {
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		if message == "" {
			message = "validation failed"
		}
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   message,
			Code:    CodeValidationFailed,
			Details: verr.Errors,
		})
		return
	}

	var storeErr *services.StoreError
	if errors.As(err, &storeErr) {
		slog.Error("Store failure", "path", c.FullPath(), "error", err)
		if message == "" {
			message = "catalog store unavailable"
		}
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: message,
			Code:  CodeStoreUnavailable,
		})
		return
	}

	respondInternalError(c, err, c.FullPath())
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, data)
}

// --- Parameter Parsing ---

// parseIntQuery reads an optional integer query parameter. A missing value
// yields def; a malformed one responds with 400 and returns false.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}
