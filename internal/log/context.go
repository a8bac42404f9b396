package log

import (
	"context"
)

// ContextWithCorrelationID tags ctx with a fresh correlation ID. The
// embedding UI calls this once per user interaction so every log line from
// the resulting call chain can be tied back to that interaction.
func ContextWithCorrelationID(ctx context.Context) context.Context {
	return context.WithValue(ctx, CorrelatedIDKey, GenerateCorrelationID())
}

// ContextWithLogger binds a correlated logger to ctx so downstream services
// pick it up via GetLoggerInstanceFromContext instead of their fallback.
func ContextWithLogger(ctx context.Context, l *Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, LoggerKeyForContext, l.WithCorrelationID(ctx))
}

// NewSessionContext stamps ctx with a correlation ID and a correlated
// logger in one step. It is the session-start hook for callers that do not
// manage context plumbing themselves.
func NewSessionContext(ctx context.Context, l *Logger) context.Context {
	ctx = ContextWithCorrelationID(ctx)
	return ContextWithLogger(ctx, l)
}
