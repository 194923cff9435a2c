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
	logger = slog.New(NewConsoleHandler(os.Stderr, slog.LevelInfo))
}

// SetLevel replaces the logger with a console handler at the given level.
func SetLevel(level slog.Level) {
	logger = slog.New(NewConsoleHandler(os.Stderr, level))
}

// SetJSONOutput switches to slog's JSON handler, for machine-consumed logs.
func SetJSONOutput(level slog.Level) {
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// WithRequestID stores a request ID in the context for later log calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in the context, or "".
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
func Debug(msg string, args ...any) { logger.Debug(msg, args...) }

// Info logs user-facing operations.
func Info(msg string, args ...any) { logger.Info(msg, args...) }

// Warn logs recoverable problems that should be monitored.
func Warn(msg string, args ...any) { logger.Warn(msg, args...) }

// Error logs failures.
func Error(msg string, args ...any) { logger.Error(msg, args...) }

// InfoContext logs at INFO with the context's request ID, if any.
func InfoContext(ctx context.Context, msg string, args ...any) {
	logger.InfoContext(ctx, msg, withRequestID(ctx, args)...)
}

// ErrorContext logs at ERROR with the context's request ID, if any.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	logger.ErrorContext(ctx, msg, withRequestID(ctx, args)...)
}

// Fatal logs at ERROR and exits. Reserved for unrecoverable startup failures.
func Fatal(msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}
