// Package middleware provides HTTP middleware shared by the API routes.
package middleware

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskmanager/internal/api/shared"
	"github.com/phrazzld/taskmanager/internal/platform/logger"
)

// TraceIDHeader is the response header carrying the request's trace ID.
const TraceIDHeader = "X-Trace-ID"

// NewTraceMiddleware returns middleware that adds a trace ID and a
// request-scoped logger to the request context. Handlers and services pick
// the logger up with logger.FromContext, so every line they write for the
// request carries the trace ID.
//
// It should run after chi's RequestID middleware so the request ID is
// included as well.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			attrs := []any{slog.String("trace_id", traceID)}
			if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
				attrs = append(attrs, slog.String("request_id", reqID))
			}
			log := base.With(attrs...)
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set(TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
