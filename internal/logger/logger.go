// Package logger builds the application's slog loggers.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a text logger on stderr at the given level ("debug", "info",
// "warn", "error"; anything else means info). Results go to stdout, so logs
// stay out of the way of shell pipelines.
func New(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
