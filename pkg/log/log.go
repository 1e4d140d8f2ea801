package log

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide logger. Every record carries the service
// attribute so newsdesk lines are separable in shared log streams.
func Setup(logLevel string) {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler).With("service", "newsdesk"))
}

func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}

// WithStory scopes a logger to one story so every line of a workflow
// operation can be correlated.
func WithStory(logger *slog.Logger, storyID string) *slog.Logger {
	return logger.With("story_id", storyID)
}
