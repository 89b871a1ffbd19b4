// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lepinkainen/humanlog"
)

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values fall back
// to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init installs a human-readable handler writing to stdout as the default
// logger.
func Init(level string) {
	InitWriter(os.Stdout, level)
}

// InitWriter is Init with a custom destination. The terminal browser uses it
// to keep log lines off the screen it draws.
func InitWriter(w io.Writer, level string) {
	handler := humanlog.NewHandler(w, &humanlog.Options{
		Level: ParseLevel(level),
	})

	slog.SetDefault(slog.New(handler))
}
