package http

import (
	"context"
	"io"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookcatalog/internal/assistant"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/importers"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
)

// This file consolidates the interfaces HTTP controllers depend on.
// Each controller takes only what it needs.

// Ingestor writes single candidates through the validation pipeline.
//
// Implementations:
//   - importers.Pipeline
type Ingestor interface {
	IngestOne(ctx context.Context, raw catalog.RawCandidate, origin importers.Origin) (*entities.Book, error)
}

// CSVImporter runs a synchronous bulk import.
//
// Implementations:
//   - importers.Pipeline
type CSVImporter interface {
	ImportCSV(ctx context.Context, r io.Reader) (importers.CSVImportResult, error)
}

// TaskQueue enqueues background tasks and reports their status.
//
// Implementations:
//   - tasks.Client
type TaskQueue interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// ImportScheduler runs the periodic CSV re-import.
//
// Implementations:
//   - scheduler.CatalogImportScheduler
type ImportScheduler interface {
	Status() scheduler.Status
	RunNow() error
}

// Asker sends prompts to the AI assistant.
//
// Implementations:
//   - assistant.Client
type Asker interface {
	Ask(ctx context.Context, prompt string) (*assistant.Reply, error)
}

// ProposalArchiver stores raw assistant proposals for later inspection.
//
// Implementations:
//   - audit.Auditor
type ProposalArchiver interface {
	Archive(kind string, data any) (string, error)
}

// ChatAuditLogger records assistant exchanges.
//
// Implementations:
//   - audit.Service
type ChatAuditLogger interface {
	LogChatProposal(ctx context.Context, proposals int, archive string, err error)
}

// Pinger checks storage connectivity.
//
// Implementations:
//   - database.Database
type Pinger interface {
	Ping(ctx context.Context) error
}
