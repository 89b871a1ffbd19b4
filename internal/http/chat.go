package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/assistant"
	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/importers"
)

// SaveRecommendationFailed is shown whenever a proposed book cannot be saved.
const SaveRecommendationFailed = "Failed to save the book. Please try again."

type ChatController struct {
	assistant Asker
	ingestor  Ingestor
	archiver  ProposalArchiver
	audit     ChatAuditLogger
}

func NewChatController(asker Asker, ingestor Ingestor, archiver ProposalArchiver, auditLog ChatAuditLogger) *ChatController {
	return &ChatController{
		assistant: asker,
		ingestor:  ingestor,
		archiver:  archiver,
		audit:     auditLog,
	}
}

type ChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type ChatResponse struct {
	Response        string            `json:"response"`
	Recommendations []json.RawMessage `json:"recommendations"`
}

// Ask handles POST /api/chat.
// Proposals are returned unvalidated; saving one goes through
// SaveRecommendation.
func (cc *ChatController) Ask(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		respondBadRequest(c, "prompt is required")
		return
	}

	reply, err := cc.assistant.Ask(c.Request.Context(), req.Prompt)
	if err != nil {
		cc.logAudit(c.Request.Context(), 0, "", err)
		respondAssistantError(c, err)
		return
	}

	resp := ChatResponse{
		Response:        reply.Text,
		Recommendations: make([]json.RawMessage, 0, len(reply.Proposals)),
	}
	for _, p := range reply.Proposals {
		resp.Recommendations = append(resp.Recommendations, p.Args)
	}

	archive := ""
	if cc.archiver != nil && len(resp.Recommendations) > 0 {
		name, err := cc.archiver.Archive(audit.ArchiveChat, gin.H{"prompt": req.Prompt, "reply": resp})
		if err != nil {
			slog.Warn("Failed to archive assistant proposals", "error", err)
		} else {
			archive = name
		}
	}
	cc.logAudit(c.Request.Context(), len(resp.Recommendations), archive, nil)

	c.JSON(http.StatusOK, resp)
}

// SaveRecommendation handles POST /api/chat/recommendations.
// The body is the showBookRecommendation arguments; they are validated
// exactly like a manual submission.
func (cc *ChatController) SaveRecommendation(c *gin.Context) {
	args, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: SaveRecommendationFailed})
		return
	}

	raw, err := importers.ChatCandidate(json.RawMessage(args))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: SaveRecommendationFailed, Details: err.Error()})
		return
	}

	book, err := cc.ingestor.IngestOne(context.WithoutCancel(c.Request.Context()), raw, importers.OriginChat)
	if err != nil {
		respondIngestError(c, err, SaveRecommendationFailed)
		return
	}
	respondCreated(c, book)
}

func (cc *ChatController) logAudit(ctx context.Context, proposals int, archive string, err error) {
	if cc.audit == nil {
		return
	}
	cc.audit.LogChatProposal(ctx, proposals, archive, err)
}

func respondAssistantError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assistant.ErrEmptyPrompt):
		respondBadRequest(c, "prompt is required")
	case errors.Is(err, assistant.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "assistant is not configured", Code: CodeAssistantFailed})
	case errors.Is(err, assistant.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "assistant is busy, try again later", Code: CodeRateLimited})
	default:
		slog.Error("Assistant request failed", "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "assistant request failed", Code: CodeAssistantFailed})
	}
}
