package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/ytranscript/logger"
	"github.com/kbukum/ytranscript/observability"
)

// Tracing opens a server span per request and puts its trace ID in the
// request context so log lines carry it. With no tracer provider installed
// the span is a no-op.
func Tracing() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), observability.SpanHTTPRequest,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
					attribute.String(observability.AttrRequestID, r.Header.Get(HeaderRequestID)),
				),
			)
			defer span.End()

			if id := observability.TraceIDFromContext(ctx); id != "" {
				ctx = logger.ContextWithTraceID(ctx, id)
			}

			rs := newResponseStats(w)
			next.ServeHTTP(rs, r.WithContext(ctx))
			status := rs.Status()

			span.SetAttributes(
				attribute.Int("http.response.status_code", status),
				attribute.Int64("http.response.body.size", rs.bytes),
			)
			if status >= 500 {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		})
	}
}
