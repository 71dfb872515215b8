package providers

import (
	"net/http"

	"github.com/kbukum/marketweb/errors"
	"github.com/kbukum/marketweb/httpclient"
	"github.com/kbukum/marketweb/query"
)

// Policy returns the cache options for the listing: fresh for StaleTime,
// kept for GCTime, previous data retained on failure, and retries skipped for
// client errors.
func Policy(cfg Config) query.Options {
	cfg.ApplyDefaults()
	opts := query.DefaultOptions()
	opts.StaleTime = cfg.StaleTime
	opts.GCTime = cfg.GCTime
	opts.Retries = cfg.RetryCount()
	opts.RetryIf = ShouldRetry
	return opts
}

// ShouldRetry reports whether a failed listing is worth another attempt.
// Errors carrying a 4xx status are final; everything else, including errors
// with no status at all, is retried.
func ShouldRetry(err error) bool {
	status := Status(err)
	return status < http.StatusBadRequest || status >= http.StatusInternalServerError
}

// Status returns the HTTP status an error carries, or 0.
func Status(err error) int {
	if s := httpclient.StatusCode(err); s != 0 {
		return s
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.UpstreamStatus
	}
	return 0
}
