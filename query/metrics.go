package query

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	hits        metric.Int64Counter
	misses      metric.Int64Counter
	fetches     metric.Int64Counter
	fetchErrors metric.Int64Counter
	retries     metric.Int64Counter
	evictions   metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.hits, "query.cache.hits", "Reads served from fresh cached data"},
		{&m.misses, "query.cache.misses", "Reads that required a fetch"},
		{&m.fetches, "query.fetches", "Fetches started"},
		{&m.fetchErrors, "query.fetch.errors", "Fetches that failed after retries"},
		{&m.retries, "query.fetch.retries", "Retried fetch attempts"},
		{&m.evictions, "query.cache.evictions", "Entries evicted after GCTime without reads or at capacity"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}
	return m, nil
}

func scopeAttr(scope string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("query.scope", scope))
}

func (m *metrics) hit(ctx context.Context, scope string) {
	if m != nil {
		m.hits.Add(ctx, 1, scopeAttr(scope))
	}
}

func (m *metrics) miss(ctx context.Context, scope string) {
	if m != nil {
		m.misses.Add(ctx, 1, scopeAttr(scope))
	}
}

func (m *metrics) fetch(ctx context.Context, scope string) {
	if m != nil {
		m.fetches.Add(ctx, 1, scopeAttr(scope))
	}
}

func (m *metrics) fetchError(ctx context.Context, scope string) {
	if m != nil {
		m.fetchErrors.Add(ctx, 1, scopeAttr(scope))
	}
}

func (m *metrics) retry(ctx context.Context, scope string) {
	if m != nil {
		m.retries.Add(ctx, 1, scopeAttr(scope))
	}
}

func (m *metrics) evict(ctx context.Context, scope string) {
	if m != nil {
		m.evictions.Add(ctx, 1, scopeAttr(scope))
	}
}
