package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookcatalog/internal/assistant"
	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditrepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/importers"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/services"
	"github.com/mrlokans/bookcatalog/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// CatalogStore implementations
var _ services.CatalogStore = (*books.Repository)(nil)
var _ services.CatalogReader = (*books.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Ingestion Pipeline
// =============================================================================

var _ http.Ingestor = (*importers.Pipeline)(nil)
var _ http.CSVImporter = (*importers.Pipeline)(nil)
var _ http.Pipeline = (*importers.Pipeline)(nil)
var _ tasks.CatalogImporter = (*importers.Pipeline)(nil)
var _ scheduler.Importer = (*importers.Pipeline)(nil)
var _ http.ImportScheduler = (*scheduler.CatalogImportScheduler)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ importers.Recorder = (*audit.Service)(nil)
var _ http.ChatAuditLogger = (*audit.Service)(nil)
var _ http.ProposalArchiver = (*audit.Auditor)(nil)
var _ tasks.AuditEventCleaner = (*auditrepo.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ http.Asker = (*assistant.Client)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
