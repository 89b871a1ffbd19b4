package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/assistant"
	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditrepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	http_controllers "github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/importers"
	"github.com/mrlokans/bookcatalog/internal/logging"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Starting server", "host", cfg.HTTP.Host, "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Drain requests before background workers go away.
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	slog.Info("Server exiting")
}

// application holds the wired components of the server.
type application struct {
	router     *gin.Engine
	db         *database.Database
	audit      *audit.Service
	taskClient *tasks.Client
	taskCancel context.CancelFunc
	scheduler  *scheduler.CatalogImportScheduler
}

// newApplication opens storage and wires every component. Background workers
// are started only when startWorkers is set.
func newApplication(cfg *config.Config, version string, startWorkers bool) (*application, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &application{db: db}

	bookRepo := books.NewRepository(db.DB)
	auditRepo := auditrepo.NewRepository(db.DB)
	app.audit = audit.NewService(auditRepo)
	auditor := audit.NewAuditor(cfg.Audit.Dir)

	pipeline := importers.NewPipeline(bookRepo, app.audit)

	assistantClient := assistant.NewClient(cfg.Assistant)
	if !cfg.AssistantEnabled() {
		slog.Warn("GEMINI_API_KEY is not set, chat endpoints will answer 503")
	}

	// The router takes interfaces; a nil *tasks.Client must stay a nil TaskQueue.
	var taskQueue http_controllers.TaskQueue
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ImportTimeout:   cfg.Tasks.ImportTimeout,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		app.taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}

		app.taskClient.Register(
			tasks.NewImportCatalogQueue(pipeline, taskCfg),
			tasks.NewCleanupAuditEventsQueue(auditRepo),
		)
		taskQueue = app.taskClient

		if startWorkers {
			var taskCtx context.Context
			taskCtx, app.taskCancel = context.WithCancel(context.Background())
			go app.taskClient.Start(taskCtx)

			if _, err := app.taskClient.Add(tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}).Save(); err != nil {
				slog.Warn("Failed to enqueue audit cleanup", "error", err)
			}
		}
	}

	app.scheduler = scheduler.NewCatalogImportScheduler(pipeline, cfg.ScheduledImport)
	if startWorkers {
		if err := app.scheduler.Start(context.Background()); err != nil {
			slog.Error("Failed to start scheduled import", "error", err)
		}
	}

	app.router = http_controllers.NewRouter(http_controllers.RouterConfig{
		Reader:                bookRepo,
		Pipeline:              pipeline,
		Database:              db,
		Assistant:             assistantClient,
		Auditor:               auditor,
		AuditService:          app.audit,
		TaskQueue:             taskQueue,
		Scheduler:             app.scheduler,
		PageSize:              cfg.Catalog.PageSize,
		ChatRequestsPerMinute: cfg.Assistant.RequestsPerMinute,
		Version:               version,
	})

	return app, nil
}

// shutdown stops background work and releases storage.
func (a *application) shutdown(ctx context.Context) {
	a.scheduler.Stop()

	if a.taskClient != nil {
		if a.taskCancel != nil {
			a.taskClient.Stop(ctx)
			a.taskCancel()
		}
		if err := a.taskClient.Close(); err != nil {
			slog.Error("Error closing task client", "error", err)
		}
	}

	a.audit.Wait()

	if err := a.db.Close(); err != nil {
		slog.Error("Error closing database", "error", err)
	}
}

func Run(cfg *config.Config, version string) {
	logging.Init(cfg.Log.Level)
	slog.Info("Starting Book Catalog", "version", version)

	app, err := newApplication(cfg, version, true)
	if err != nil {
		slog.Error("Startup failed", "error", err)
		os.Exit(1)
	}

	Serve(app.router, cfg, app.shutdown)
}
