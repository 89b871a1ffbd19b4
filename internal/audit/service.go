package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/services"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
// The write outlives ctx's cancellation but keeps its values.
func (s *Service) LogAsync(ctx context.Context, event *entities.AuditEvent) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			slog.Error("Failed to log audit event", "action", event.Action, "error", err)
		}
	}()
}

// Wait blocks until all pending async writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// RecordIngest records a single ingestion or a whole batch.
func (s *Service) RecordIngest(ctx context.Context, record services.IngestRecord) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventIngest,
		Action:      record.Origin + "_ingest",
		Description: truncate(record.Summary, 500),
		EntityType:  "book",
		EntityID:    record.BookID,
		Status:      entities.AuditStatusSuccess,
	}
	if record.Origin == "bulk-import" {
		event.EventType = entities.AuditEventImport
	}

	metadata := map[string]any{
		"ingested": record.Ingested,
		"rejected": record.Rejected,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	switch {
	case record.Err != nil && record.Ingested == 0 && record.Rejected > 0:
		event.Status = entities.AuditStatusRejected
		event.ErrorMsg = truncate(record.Err.Error(), 500)
	case record.Err != nil:
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(record.Err.Error(), 500)
	case record.Ingested == 0 && record.Rejected > 0:
		event.Status = entities.AuditStatusRejected
	}

	s.LogAsync(ctx, event)
}

// LogChatProposal records that the assistant proposed books. archive is the
// name of the JSON file holding the raw proposal, if one was written.
func (s *Service) LogChatProposal(ctx context.Context, proposals int, archive string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventChat,
		Action:      "chat_proposal",
		Description: "Assistant reply",
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"proposals": proposals,
		"archive":   archive,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(ctx, event)
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
