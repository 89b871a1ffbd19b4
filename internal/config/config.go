package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Audit
		Global
		Database
		Catalog
		Assistant
		Tasks
		ScheduledImport
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Audit struct {
		Dir           string
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Catalog struct {
		PageSize       int           // Books revealed per "load more" (default: 5)
		SearchDebounce time.Duration // Idle window before a search is applied (default: 300ms)
	}
	Assistant struct {
		APIKey            string
		Model             string
		BaseURL           string
		Timeout           time.Duration
		RequestsPerMinute int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ImportTimeout   time.Duration
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	ScheduledImport struct {
		Enabled  bool
		Path     string // CSV file re-imported on every run
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Log struct {
		Level string
	}
)

// AssistantEnabled reports whether an API key was configured.
func (c *Config) AssistantEnabled() bool {
	return c.Assistant.APIKey != ""
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("log_level", "info")

	// Catalog browsing defaults
	v.SetDefault("catalog_page_size", 5)
	v.SetDefault("catalog_search_debounce", "300ms")

	// Assistant defaults
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("gemini_base_url", DefaultGeminiBaseURL)
	v.SetDefault("assistant_timeout", "30s")
	v.SetDefault("assistant_requests_per_minute", 15)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_import_timeout", "10m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Scheduled import defaults
	v.SetDefault("scheduled_import_enabled", false)
	v.SetDefault("scheduled_import_path", "")
	v.SetDefault("scheduled_import_schedule", "0 3 * * *") // Daily at 03:00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			PageSize:       v.GetInt("CATALOG_PAGE_SIZE"),
			SearchDebounce: v.GetDuration("CATALOG_SEARCH_DEBOUNCE"),
		},
		Assistant: Assistant{
			APIKey:            v.GetString("GEMINI_API_KEY"),
			Model:             v.GetString("GEMINI_MODEL"),
			BaseURL:           v.GetString("GEMINI_BASE_URL"),
			Timeout:           v.GetDuration("ASSISTANT_TIMEOUT"),
			RequestsPerMinute: v.GetInt("ASSISTANT_REQUESTS_PER_MINUTE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ImportTimeout:   v.GetDuration("TASK_IMPORT_TIMEOUT"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		ScheduledImport: ScheduledImport{
			Enabled:  v.GetBool("SCHEDULED_IMPORT_ENABLED"),
			Path:     v.GetString("SCHEDULED_IMPORT_PATH"),
			Schedule: v.GetString("SCHEDULED_IMPORT_SCHEDULE"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}
