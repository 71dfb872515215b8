// Package httpclient is a thin HTTP client with status classification.
//
// Every non-2xx response becomes an *Error carrying the status code, and
// transport failures become timeout or connection errors with status 0.
// Retries are opt-in through Config.Retry; leave it nil when a caller such
// as the query cache owns the retry policy. Outbound requests carry an
// OpenTelemetry client span and propagate the trace context.
package httpclient
