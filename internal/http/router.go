package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Reader, cfg.Pipeline, cfg.PageSize)
	csvImporter := NewCSVImportController(cfg.Pipeline, cfg.TaskQueue, cfg.UploadDir)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Books API endpoints
	router.GET("/api/books", booksController.GetAllBooks)
	router.GET("/api/books/browse", booksController.Browse)
	router.POST("/api/books", booksController.CreateBook)
	router.POST("/api/books/form", booksController.CreateBookForm)

	// Import endpoints
	router.POST("/api/import/csv", csvImporter.Import)
	if cfg.TaskQueue != nil {
		router.GET("/api/import/tasks/:id", csvImporter.TaskStatus)
	}
	if cfg.Scheduler != nil {
		schedule := NewScheduleController(cfg.Scheduler)
		router.GET("/api/import/schedule", schedule.Status)
		router.POST("/api/import/schedule/run", schedule.RunNow)
	}

	// Assistant endpoints
	if cfg.Assistant != nil {
		chat := NewChatController(cfg.Assistant, cfg.Pipeline, cfg.Auditor, cfg.AuditService)
		limiter := NewPerMinuteLimiter(cfg.ChatRequestsPerMinute)
		router.POST("/api/chat", RateLimitMiddleware(limiter), chat.Ask)
		router.POST("/api/chat/recommendations", chat.SaveRecommendation)
	}

	return router
}
