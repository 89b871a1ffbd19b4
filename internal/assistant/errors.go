package assistant

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates no API key was provided
var ErrNotConfigured = errors.New("assistant is not configured: GEMINI_API_KEY is empty")

// ErrEmptyPrompt indicates the prompt had no content
var ErrEmptyPrompt = errors.New("prompt is empty")

// ErrInvalidAPIKey indicates the API rejected the key
var ErrInvalidAPIKey = errors.New("invalid or unauthorized Gemini API key")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("gemini API rate limit exceeded")

// ErrEmptyResponse indicates the model returned no candidates
var ErrEmptyResponse = errors.New("gemini returned no candidates")

// APIError represents a non-success response from the Gemini API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Gemini API error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("Gemini API error: HTTP %d: %s", e.StatusCode, e.Message)
}
