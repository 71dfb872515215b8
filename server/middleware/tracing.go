package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/marketweb/observability"
)

// Tracing starts a server span per request, continuing any trace the caller
// propagated.
func Tracing() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := observability.StartSpan(ctx, observability.SpanHTTPServer,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
				),
			)
			defer span.End()

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.response.status_code", sw.Status()))
			if sw.Status() >= 500 {
				span.SetStatus(codes.Error, http.StatusText(sw.Status()))
			}
		})
	}
}

// Metrics records request counts and latencies. Routes are bucketed into
// "page", "api", "probe" and "asset" to keep attribute cardinality flat.
func Metrics(m *observability.HTTPMetrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.Start(r.Context())
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			m.End(r.Context(), r.Method, routeClass(r.URL.Path), sw.Status(), time.Since(start))
		})
	}
}

func routeClass(path string) string {
	switch {
	case isProbe(path):
		return "probe"
	case path == "/api" || strings.HasPrefix(path, "/api/"):
		return "api"
	case !DefaultScope.Match(path):
		return "asset"
	default:
		return "page"
	}
}
