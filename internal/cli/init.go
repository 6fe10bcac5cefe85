// Package cli implements the command dispatcher for the expenses tool.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// SetupLogger initializes structured logging at the given level and sets
// it as the default logger. Logs go to stderr so the rendered expense
// tables on stdout stay clean.
func SetupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}
