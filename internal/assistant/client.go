// Package assistant talks to the Gemini generateContent API. The model can
// answer in text and propose books through the showBookRecommendation
// function; proposals are returned raw and must go through the ingestion
// pipeline before anything is saved.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/importers"
)

const (
	defaultTimeout = 30 * time.Second
	defaultModel   = "gemini-1.5-flash"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20

	instructions = "You're a helpful book assistant. When you recommend a book, " +
		"call the `showBookRecommendation` function for each book."
)

// Client interfaces with the Gemini generateContent API
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	model      string
	baseURL    string
}

// NewClient creates a new Gemini client. Outbound calls are limited to
// cfg.RequestsPerMinute; zero or less means unlimited.
func NewClient(cfg config.Assistant) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultGeminiBaseURL
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Proposal is one showBookRecommendation call made by the model. Args are
// the unvalidated tool-call arguments.
type Proposal struct {
	Args json.RawMessage
}

// Reply is the model's answer to a prompt.
type Reply struct {
	Text      string
	Proposals []Proposal
}

type part struct {
	Text         string        `json:"text,omitempty"`
	FunctionCall *functionCall `json:"functionCall,omitempty"`
}

type functionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
}

type functionDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  schema `json:"parameters"`
}

type tool struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
	Tools             []tool    `json:"tools,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// recommendationTool mirrors the catalog's wire fields.
var recommendationTool = functionDeclaration{
	Name:        importers.RecommendationTool,
	Description: "Display one or more book recommendations with option to save each",
	Parameters: schema{
		Type: "OBJECT",
		Properties: map[string]schema{
			"name":       {Type: "STRING", Description: "Book title"},
			"author":     {Type: "STRING"},
			"userRating": {Type: "NUMBER", Description: "Average reader rating from 0 to 5"},
			"reviews":    {Type: "NUMBER", Description: "Number of reviews"},
			"price":      {Type: "NUMBER", Description: "Price in US dollars"},
			"year":       {Type: "NUMBER", Description: "Publication year"},
			"genre":      {Type: "STRING"},
		},
		Required: []string{"name", "author", "userRating", "reviews", "price", "year", "genre"},
	},
}

// Ask sends a prompt and returns the text reply together with any books the
// model proposed. It waits for the rate limiter before calling out.
func (c *Client) Ask(ctx context.Context, prompt string) (*Reply, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: instructions}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		Tools:             []tool{{FunctionDeclarations: []functionDeclaration{recommendationTool}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, data); err != nil {
		return nil, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return toReply(parsed)
}

func checkStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrInvalidAPIKey
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	}

	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)
	return &APIError{StatusCode: status, Message: apiErr.Error.Message}
}

func toReply(resp generateResponse) (*Reply, error) {
	if len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}

	reply := &Reply{}
	var texts []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
		if p.FunctionCall != nil && p.FunctionCall.Name == importers.RecommendationTool {
			reply.Proposals = append(reply.Proposals, Proposal{Args: p.FunctionCall.Args})
		}
	}
	reply.Text = strings.Join(texts, "\n")

	return reply, nil
}
