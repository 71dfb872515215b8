package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/marketweb/logger"
)

var probePaths = map[string]bool{
	"/health": true,
	"/alive":  true,
	"/ready":  true,
	"/info":   true,
}

// RequestLogger logs every request with its method, path, status, duration
// and response size.
// Probe paths are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			fields := logger.Fields(
				"method", r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, sw.Status(),
				logger.FieldDuration, elapsed.Milliseconds(),
				"bytes", sw.size,
			)
			if elapsed > 500*time.Millisecond {
				fields["slow"] = true
			}
			logByStatus(log.WithContext(r.Context()), fields, sw.Status())
		})
	}
}

func isProbe(path string) bool {
	return probePaths[strings.TrimSuffix(path, "/")]
}

// logByStatus logs at error for 5xx, warn for 4xx and debug otherwise.
func logByStatus(log *logger.Logger, fields map[string]any, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
