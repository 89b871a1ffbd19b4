package tasks

import "time"

// Config tunes the background worker pool.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// ImportTimeout bounds a single catalog import run. Rows already
	// processed when it fires stay persisted. Default: 10m
	ImportTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often finished tasks past their retention are
	// purged. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ImportTimeout:   10 * time.Minute,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}
