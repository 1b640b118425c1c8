// Package logger builds the slog loggers used by the CLI and the generator.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New constructs a logger for service writing to stderr. LOG_LEVEL picks the
// level and LOG_FORMAT=json switches to JSON lines for CI.
func New(service string) *slog.Logger {
	return NewWriter(os.Stderr, service, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// NewWriter is New with explicit settings.
func NewWriter(w io.Writer, service, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", service)
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
