package middleware

import (
	"net/http"
	"runtime/debug"

	reqctx "infinite-experiment/skywatch/internal/context"
	"infinite-experiment/skywatch/internal/logging"
)

// Logging logs each incoming request at debug level and turns handler panics into 500s
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := reqctx.GetRequestID(r.Context())

		logging.Debug("HTTP request received",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"remote_addr", r.RemoteAddr,
		)

		defer func() {
			if rec := recover(); rec != nil {
				logging.Error("Handler panicked",
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
