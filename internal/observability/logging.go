// Package observability carries run-scoped log attributes through a context
// so every log line of an updater run can be correlated.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/contentmigrate/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RunID        string
	OverwriteSet string
	Stage        string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RunID = runID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithOverwriteSet adds the name of the overwrite set being applied.
func WithOverwriteSet(ctx context.Context, name string) context.Context {
	lc := extractLogContext(ctx)
	lc.OverwriteSet = name
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

// Attrs returns the context attributes followed by attrs.
func Attrs(ctx context.Context, attrs ...slog.Attr) []slog.Attr {
	lc := extractLogContext(ctx)
	all := make([]slog.Attr, 0, 3+len(attrs))

	if lc.RunID != "" {
		all = append(all, logfields.RunID(lc.RunID))
	}
	if lc.OverwriteSet != "" {
		all = append(all, logfields.OverwriteSet(lc.OverwriteSet))
	}
	if lc.Stage != "" {
		all = append(all, slog.String("stage", lc.Stage))
	}
	return append(all, attrs...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelInfo, msg, Attrs(ctx, attrs...)...)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelWarn, msg, Attrs(ctx, attrs...)...)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelError, msg, Attrs(ctx, attrs...)...)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelDebug, msg, Attrs(ctx, attrs...)...)
}
