// Package logging defines the structured-logging interface used across
// gophauth. The server and the admin CLI both back it with log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Warn(ctx, "permission cache fetch failed", "key", key, "error", err)
type Logger interface {
	// Debug logs diagnostic detail such as cache misses.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a recoverable problem, e.g. a degraded cache.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failed operation.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
