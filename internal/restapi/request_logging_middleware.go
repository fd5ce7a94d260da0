package restapi

import (
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"

	"wlmonitor.org/internal/logging"
)

// NewRequestLoggingMiddleware creates middleware that logs HTTP requests.
// httpsnoop keeps the optional interfaces of the wrapped writer, so
// websocket upgrades can still hijack the connection.
func NewRequestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Add logger to context for downstream handlers
			ctx := logging.WithLogger(r.Context(), logger)
			r = r.WithContext(ctx)

			metrics := httpsnoop.CaptureMetrics(next, w, r)

			logging.LogHTTPRequest(logger,
				r.Method,
				r.URL.Path, // Path without query parameters
				metrics.Code,
				float64(metrics.Duration.Nanoseconds())/1e6,
				slog.Int64("bytes", metrics.Written),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.String("component", "http_server"))
		})
	}
}
