package kmeansgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with kmeansgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithClusters adds a clusters (requested cluster count) field to the logger.
func (l *Logger) WithClusters(clusters int) *Logger {
	return &Logger{
		Logger: l.Logger.With("clusters", clusters),
	}
}

// WithPoints adds a points (dataset size) field to the logger.
func (l *Logger) WithPoints(points int) *Logger {
	return &Logger{
		Logger: l.Logger.With("points", points),
	}
}

// LogRun logs the outcome of a clustering run.
func (l *Logger) LogRun(ctx context.Context, clusters, points int, info *RunInfo, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"clusters", clusters,
			"points", points,
			"error", err,
		)
		return
	}

	l.DebugContext(ctx, "clustering completed",
		"clusters", clusters,
		"points", points,
		"iterations", info.Iterations,
		"converged", info.Converged,
		"empty_repairs", info.EmptyRepairs,
		"merges", info.Merges,
	)
}
