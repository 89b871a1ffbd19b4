package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookcatalog/internal/importers"
)

// CatalogImporter ingests a catalog CSV from disk.
//
// Implementations:
//   - importers.Pipeline
type CatalogImporter interface {
	ImportCSVFile(ctx context.Context, path string) (importers.CSVImportResult, error)
}

// ImportCatalogTask runs a bulk CSV import in the background.
type ImportCatalogTask struct {
	Path string `json:"path"`
	// RemoveAfter deletes the file once processed (uploaded files are staged
	// in a temporary location).
	RemoveAfter bool `json:"remove_after,omitempty"`
}

// Config returns the queue configuration for catalog import tasks.
// Imports are not idempotent, so they are never retried. Timeout is a hard
// ceiling; Config.ImportTimeout bounds the import itself.
func (t ImportCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_catalog",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportCatalogProcessor creates a processor function for ImportCatalogTask.
// A non-positive timeout leaves the run bounded only by the queue.
func ImportCatalogProcessor(importer CatalogImporter, timeout time.Duration) backlite.QueueProcessor[ImportCatalogTask] {
	return func(ctx context.Context, task ImportCatalogTask) error {
		if importer == nil {
			return fmt.Errorf("catalog importer not configured")
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if task.RemoveAfter {
			defer func() {
				if err := os.Remove(task.Path); err != nil && !os.IsNotExist(err) {
					slog.Warn("Failed to remove staged import file", "path", task.Path, "error", err)
				}
			}()
		}

		result, err := importer.ImportCSVFile(ctx, task.Path)
		if err != nil {
			return fmt.Errorf("import catalog %s: %w", task.Path, err)
		}

		slog.Info("Catalog import task finished",
			"path", task.Path,
			"ingested", result.Ingested,
			"rejected", result.Rejected,
			"parse_errors", len(result.ParseErrors),
		)
		return nil
	}
}

// NewImportCatalogQueue creates a backlite queue for catalog import tasks.
func NewImportCatalogQueue(importer CatalogImporter, cfg Config) backlite.Queue {
	return backlite.NewQueue(ImportCatalogProcessor(importer, cfg.ImportTimeout))
}
