// Package logging provides structured logging configuration for evmbench.
//
// Logs go to stderr as text so they never interleave with the report table
// on stdout. Levels are configurable via the -log-level flag (debug, info,
// warn, error); the configured logger is also installed as the slog default.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// SetupLogger creates a text logger on stderr at the given level and
// installs it as the slog default. Invalid levels default to "warn", which
// keeps single-shot runs quiet unless something goes wrong.
func SetupLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel converts a string log level to slog.Level (case-insensitive).
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
