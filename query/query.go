package query

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/marketweb/logger"
	"github.com/kbukum/marketweb/observability"
	"github.com/kbukum/marketweb/resilience"
)

// FetchFunc loads the data for a query.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Query binds a key, a fetch function and options to a client.
type Query[T any] struct {
	client *Client
	key    Key
	hash   string
	fetch  FetchFunc[T]
	opts   Options
}

// NewQuery creates a query. Queries with equal keys share one cache entry.
func NewQuery[T any](c *Client, key Key, fetch FetchFunc[T], opts Options) *Query[T] {
	opts.applyDefaults()
	return &Query[T]{client: c, key: key, hash: key.Hash(), fetch: fetch, opts: opts}
}

// Key returns the query key.
func (q *Query[T]) Key() Key { return q.key }

// Fetch returns cached data while it is fresh and fetches otherwise.
func (q *Query[T]) Fetch(ctx context.Context) State[T] {
	e := q.client.lookup(q.key, q.hash, q.opts)
	scope := q.key.Scope()

	st := q.snapshot(e)
	if !st.IsStale(q.client.now()) {
		q.client.metrics.hit(ctx, scope)
		return st
	}
	if !st.HasData && q.warmStart(ctx, e) {
		q.client.metrics.hit(ctx, scope)
		return q.snapshot(e)
	}

	q.client.metrics.miss(ctx, scope)
	return q.Refetch(ctx)
}

// Refetch fetches regardless of freshness. Concurrent callers for the same
// key share one fetch.
func (q *Query[T]) Refetch(ctx context.Context) State[T] {
	e := q.client.lookup(q.key, q.hash, q.opts)

	// The shared fetch outlives any single caller's cancellation; the
	// fetch function's own timeouts bound it.
	shared := context.WithoutCancel(ctx)
	_, _, _ = q.client.group.Do(q.hash, func() (any, error) {
		q.run(shared, e)
		return nil, nil
	})
	return q.snapshot(e)
}

// Peek returns the current state without fetching.
func (q *Query[T]) Peek() State[T] {
	return q.snapshot(q.client.lookup(q.key, q.hash, q.opts))
}

// Invalidate marks the data stale so the next Fetch refetches.
func (q *Query[T]) Invalidate() {
	e := q.client.lookup(q.key, q.hash, q.opts)
	q.client.mu.Lock()
	e.invalidated = true
	q.client.mu.Unlock()
}

func (q *Query[T]) run(ctx context.Context, e *entry) {
	c := q.client
	scope := q.key.Scope()
	log := c.log.WithFields(logger.Fields(logger.FieldQueryKey, q.hash))

	c.mu.Lock()
	e.fetching = true
	if !e.hasData {
		e.status = StatusLoading
	}
	c.mu.Unlock()

	ctx, span := observability.StartSpan(ctx, observability.SpanQueryFetch,
		trace.WithAttributes(attribute.String(observability.AttrQueryKey, q.hash)))
	defer span.End()
	c.metrics.fetch(ctx, scope)

	failures := 0
	cfg := resilience.RetryConfig{
		MaxAttempts: q.opts.Retries + 1,
		RetryIf: func(err error) bool {
			return q.opts.RetryIf == nil || q.opts.RetryIf(err)
		},
		Delay: q.opts.RetryDelay,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			c.metrics.retry(ctx, scope)
			log.Debug("retrying fetch", logger.Fields(logger.FieldAttempt, attempt, logger.FieldError, err.Error(), "backoff", backoff.String()))
		},
	}
	data, err := resilience.Retry(ctx, cfg, func(ctx context.Context, attempt int) (T, error) {
		span.SetAttributes(attribute.Int(observability.AttrAttempt, attempt))
		v, err := q.fetch(ctx)
		if err != nil {
			failures = attempt
			c.mu.Lock()
			e.failureCount = failures
			c.mu.Unlock()
		}
		return v, err
	})

	now := c.now()
	c.mu.Lock()
	e.fetching = false
	if err != nil {
		e.err = err
		e.errorAt = now
		e.status = StatusError
		e.failureCount = failures
		if !q.opts.KeepPreviousData {
			e.data, e.hasData = nil, false
		}
	} else {
		e.data, e.hasData = data, true
		e.err = nil
		e.status = StatusSuccess
		e.updatedAt = now
		e.invalidated = false
		e.failureCount = 0
	}
	c.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		c.metrics.fetchError(ctx, scope)
		log.Warn("fetch failed", logger.Fields(logger.FieldError, err.Error(), logger.FieldAttempt, failures))
		return
	}
	q.persist(ctx, data, now)
}

// warmStart fills an empty entry from the shared store when the stored
// copy is still fresh.
func (q *Query[T]) warmStart(ctx context.Context, e *entry) bool {
	c := q.client
	if c.store == nil {
		return false
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanCacheGet,
		trace.WithAttributes(attribute.String(observability.AttrQueryKey, q.hash)))
	defer span.End()

	stored, err := c.store.Load(ctx, q.hash)
	if err != nil {
		span.RecordError(err)
		c.log.Warn("shared store load failed", logger.Fields(logger.FieldQueryKey, q.hash, logger.FieldError, err.Error()))
		return false
	}
	if stored == nil || !c.now().Before(stored.UpdatedAt.Add(q.opts.StaleTime)) {
		span.SetAttributes(attribute.Bool(observability.AttrCacheHit, false))
		return false
	}

	var data T
	if err := json.Unmarshal(stored.Data, &data); err != nil {
		c.log.Warn("shared store entry undecodable", logger.Fields(logger.FieldQueryKey, q.hash, logger.FieldError, err.Error()))
		return false
	}
	span.SetAttributes(attribute.Bool(observability.AttrCacheHit, true))

	c.mu.Lock()
	defer c.mu.Unlock()
	if e.hasData {
		return true
	}
	e.data, e.hasData = data, true
	e.updatedAt = stored.UpdatedAt
	e.status = StatusSuccess
	e.err = nil
	return true
}

func (q *Query[T]) persist(ctx context.Context, data T, at time.Time) {
	c := q.client
	if c.store == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		c.log.Warn("shared store encode failed", logger.Fields(logger.FieldQueryKey, q.hash, logger.FieldError, err.Error()))
		return
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanCacheSet)
	defer span.End()
	if err := c.store.Save(ctx, q.hash, &StoredEntry{UpdatedAt: at, Data: raw}, q.opts.GCTime); err != nil {
		span.RecordError(err)
		c.log.Warn("shared store save failed", logger.Fields(logger.FieldQueryKey, q.hash, logger.FieldError, err.Error()))
	}
}

func (q *Query[T]) snapshot(e *entry) State[T] {
	c := q.client
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State[T]{
		Err:          e.err,
		Status:       e.status,
		UpdatedAt:    e.updatedAt,
		ErrorAt:      e.errorAt,
		StaleAt:      e.updatedAt.Add(e.staleTime),
		Invalidated:  e.invalidated,
		IsFetching:   e.fetching,
		FailureCount: e.failureCount,
	}
	if e.hasData {
		if v, ok := e.data.(T); ok {
			st.Data, st.HasData = v, true
		}
	}
	return st
}
