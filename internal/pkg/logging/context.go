package logging

import (
	"context"

	"go.uber.org/zap"
)

// loggerKey is the context key under which the request-scoped logger travels
// from the HTTP middleware down into the workflow services.
type loggerKey struct{}

// ContextWithLogger attaches logger to ctx. Passing nil returns ctx
// unchanged.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached to ctx. Callers always get a usable
// logger: contexts without one yield the process-wide zap.L().
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return zap.L()
	}
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.L()
}
