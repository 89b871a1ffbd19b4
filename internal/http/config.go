package http

import (
	"github.com/mrlokans/bookcatalog/internal/services"
)

// Pipeline is what the router needs from the ingestion pipeline.
type Pipeline interface {
	Ingestor
	CSVImporter
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Reader   services.CatalogReader
	Pipeline Pipeline
	Database Pinger

	// Assistant (optional). When nil the chat endpoints are not registered.
	Assistant    Asker
	Auditor      ProposalArchiver
	AuditService ChatAuditLogger

	// Task queue (optional). Enables asynchronous CSV imports.
	TaskQueue TaskQueue
	UploadDir string

	// Scheduled import (optional).
	Scheduler ImportScheduler

	// Catalog browsing
	PageSize int

	// Inbound limit for /api/chat; zero disables it.
	ChatRequestsPerMinute int

	// Application info
	Version string
}
