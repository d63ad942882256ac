package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a request-scoped logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts the request logger, or zap.NewNop() if none is set.
func FromContext(ctx context.Context) *zap.Logger {
	return Or(ctx, zap.NewNop())
}

// Or extracts the request logger, falling back to the given service logger.
// Services use it so their log lines carry the request ID when one exists.
func Or(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}
