package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() when none
// is present.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOrDefault(ctx, slog.Default())
}

// FromContextOrDefault returns the logger stored in ctx, or fallback when none
// is present. A request-scoped logger carries attributes such as the trace ID,
// so components prefer it over their own logger.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	if fallback == nil {
		return slog.Default()
	}
	return fallback
}

// ForComponent returns the logger to use inside a component. A request-scoped
// logger from ctx is tagged with the component attribute so that lines keep
// both the request attributes and their origin. Without one, fallback is
// returned as is and is expected to carry the attribute already.
func ForComponent(ctx context.Context, fallback *slog.Logger, component string) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l.With(slog.String("component", component))
		}
	}
	if fallback == nil {
		return slog.Default()
	}
	return fallback
}
