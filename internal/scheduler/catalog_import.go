package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/importers"
)

// Importer ingests a catalog CSV from disk.
type Importer interface {
	ImportCSVFile(ctx context.Context, path string) (importers.CSVImportResult, error)
}

var (
	ErrNotConfigured    = errors.New("scheduled import path is not configured")
	ErrImportInProgress = errors.New("an import is already running")
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks that a schedule is a standard five-field cron
// expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	switch schedule {
	case "0 * * * *":
		return "Every hour at :00"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 */6 * * *":
		return "Every 6 hours"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 3 * * *":
		return "Daily at 03:00"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// CatalogImportScheduler periodically re-imports a CSV file into the catalog.
// Every run goes through the ingestion pipeline, so rows are validated like
// any other bulk import. Rows are appended on every run; there is no
// deduplication.
type CatalogImportScheduler struct {
	importer Importer
	cfg      config.ScheduledImport

	cron        *cron.Cron
	entryID     cron.EntryID
	mu          sync.RWMutex
	isRunning   bool
	isImporting bool
	cancelFunc  context.CancelFunc
	lastRunAt   *time.Time
	lastResult  *importers.CSVImportResult
	lastErr     error
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	Active      bool // cron job registered and running
	Importing   bool
	Schedule    string
	Description string
	Path        string
	NextRun     *time.Time
	LastRunAt   *time.Time
	LastResult  *importers.CSVImportResult // most recent successful run
	LastError   error                      // nil when the most recent run succeeded
}

// NewCatalogImportScheduler creates a new scheduler instance
func NewCatalogImportScheduler(importer Importer, cfg config.ScheduledImport) *CatalogImportScheduler {
	return &CatalogImportScheduler{
		importer: importer,
		cfg:      cfg,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if scheduled import is enabled
func (s *CatalogImportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		slog.Info("Catalog import scheduler: disabled")
		return nil
	}

	if s.cfg.Path == "" {
		slog.Info("Catalog import scheduler: no path configured, skipping")
		return nil
	}

	if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runImport()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule import job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	slog.Info("Catalog import scheduler: started",
		"schedule", s.cfg.Schedule,
		"description", GetCronDescription(s.cfg.Schedule),
		"path", s.cfg.Path,
	)

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running import.
func (s *CatalogImportScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// Stop accepting new jobs and wait for running jobs to complete
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	if cancel != nil {
		cancel()
	}

	slog.Info("Catalog import scheduler: stopped")
}

// RunNow triggers an immediate import in the background. It fails fast when
// no path is configured or an import is already running.
func (s *CatalogImportScheduler) RunNow() error {
	if s.cfg.Path == "" {
		return ErrNotConfigured
	}

	s.mu.RLock()
	importing := s.isImporting
	s.mu.RUnlock()
	if importing {
		return ErrImportInProgress
	}

	go s.runImport()
	return nil
}

// Status returns the scheduler state, the next planned run and the outcome
// of the last one.
func (s *CatalogImportScheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Active:     s.isRunning,
		Importing:  s.isImporting,
		Schedule:   s.cfg.Schedule,
		Path:       s.cfg.Path,
		LastRunAt:  s.lastRunAt,
		LastResult: s.lastResult,
		LastError:  s.lastErr,
	}
	if st.Schedule != "" {
		st.Description = GetCronDescription(st.Schedule)
	}

	if s.isRunning {
		for _, entry := range s.cron.Entries() {
			if entry.ID == s.entryID {
				next := entry.Next
				st.NextRun = &next
				break
			}
		}
	}
	return st
}

func (s *CatalogImportScheduler) runImport() {
	s.mu.Lock()
	if s.isImporting {
		s.mu.Unlock()
		slog.Info("Catalog import: skipped (already importing)")
		return
	}
	s.isImporting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isImporting = false
		s.mu.Unlock()
	}()

	slog.Info("Catalog import: starting", "path", s.cfg.Path)
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	result, err := s.importer.ImportCSVFile(ctx, s.cfg.Path)

	s.mu.Lock()
	s.lastRunAt = &startTime
	s.lastErr = err
	if err == nil {
		s.lastResult = &result
	}
	s.mu.Unlock()

	if err != nil {
		slog.Error("Catalog import: failed", "path", s.cfg.Path, "error", err)
		return
	}

	slog.Info("Catalog import: finished",
		"ingested", result.Ingested,
		"rejected", result.Rejected,
		"parse_errors", len(result.ParseErrors),
		"duration", time.Since(startTime).Round(time.Millisecond),
	)
}
