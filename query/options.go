package query

import (
	"time"

	"github.com/kbukum/marketweb/resilience"
)

// Options controls caching and retry for a query.
type Options struct {
	// StaleTime is how long fetched data counts as fresh.
	StaleTime time.Duration
	// GCTime is how long an entry survives without being read.
	GCTime time.Duration
	// Retries is the number of extra attempts after the first failure.
	Retries int
	// RetryIf gates each retry. Nil retries every error up to Retries.
	RetryIf func(err error) bool
	// RetryDelay returns the wait before the given retry (1-based). Nil
	// uses min(1s*2^(attempt-1), 30s).
	RetryDelay func(attempt int, err error) time.Duration
	// KeepPreviousData retains the last good data when a fetch fails.
	KeepPreviousData bool
}

// DefaultOptions returns the cache defaults: data is stale immediately, kept
// for five minutes, three retries.
func DefaultOptions() Options {
	return Options{
		StaleTime:        0,
		GCTime:           5 * time.Minute,
		Retries:          3,
		KeepPreviousData: true,
	}
}

func (o *Options) applyDefaults() {
	if o.GCTime <= 0 {
		o.GCTime = 5 * time.Minute
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.RetryDelay == nil {
		o.RetryDelay = resilience.ExponentialDelay(time.Second, 30*time.Second)
	}
}
