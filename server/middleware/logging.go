package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/kbukum/ytranscript/logger"
)

// quietPaths are polled by orchestrators and not logged.
var quietPaths = []string{"/health", "/ready", "/live", "/metrics"}

// RequestLogger logs every request with method, path, status, response size
// and duration. 5xx log at error, 4xx at warn, the rest at info. Health,
// readiness, liveness and metrics polls are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(quietPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rs := newResponseStats(w)
			next.ServeHTTP(rs, r)
			status := rs.Status()

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, status,
				"bytes", rs.bytes,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			l := log.WithContext(r.Context())
			switch {
			case status >= 500:
				l.Error("Request completed", fields)
			case status >= 400:
				l.Warn("Request completed", fields)
			default:
				l.Info("Request completed", fields)
			}
		})
	}
}
