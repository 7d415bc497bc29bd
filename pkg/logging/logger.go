// Package logging provides the process-wide structured logger: a compact
// console handler by default, JSON on request, and request-id plumbing
// for the web surface.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type contextKey string

const requestIDKey contextKey = "requestID"

var logger *slog.Logger

func init() {
	logger = slog.New(NewCompactHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Setup reconfigures the global logger. jsonOutput switches to slog's
// JSON handler for machine-readable logs.
func Setup(level slog.Level, jsonOutput bool) {
	if jsonOutput {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return
	}
	logger = slog.New(NewCompactHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// LevelFromVerbosity maps the config verbosity knob to a slog level:
// 0 = info, 1 = debug, 2+ = trace-ish (debug-4).
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelInfo
	case v == 1:
		return slog.LevelDebug
	default:
		return slog.LevelDebug - 4
	}
}

// WithRequestID stores a request ID on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID retrieves the request ID from a context, or "".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func withRequestID(ctx context.Context, args []any) []any {
	if id := RequestID(ctx); id != "" {
		return append([]any{"requestID", id}, args...)
	}
	return args
}

// Debug logs internal component behavior.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs user-facing operations.
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs degraded-but-continuing conditions: dropped sources, failed
// tool invocations.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs logical bugs that should not happen.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// Fatal logs at ERROR level and exits.
func Fatal(msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}

// InfoContext logs at INFO level with the context's request ID attached.
func InfoContext(ctx context.Context, msg string, args ...any) {
	logger.InfoContext(ctx, msg, withRequestID(ctx, args)...)
}

// ErrorContext logs at ERROR level with the context's request ID attached.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	logger.ErrorContext(ctx, msg, withRequestID(ctx, args)...)
}
