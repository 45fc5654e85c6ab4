// Package contextutil carries the request-scoped logger through context so
// storage and library code can log with the request's attributes attached.
package contextutil

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerKey contextKey = "logger"

// WithLogger returns a context carrying the given logger. The HTTP
// middleware calls this once per request with method and path attributes
// already attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger stored by WithLogger, falling back
// to slog.Default for contexts that never passed through the middleware
// (background jobs, tests).
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
