package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/marketweb/component"
	"github.com/kbukum/marketweb/logger"
	"github.com/kbukum/marketweb/observability"
)

const (
	defaultGCInterval = time.Minute
	// DefaultMaxEntries bounds the cache when WithMaxEntries is not given.
	DefaultMaxEntries = 1000
)

// entry holds the cached state of one key.
type entry struct {
	key          Key
	data         any
	hasData      bool
	err          error
	status       Status
	updatedAt    time.Time
	errorAt      time.Time
	lastAccess   time.Time
	staleTime    time.Duration
	gcTime       time.Duration
	invalidated  bool
	fetching     bool
	failureCount int
}

// Client owns the cache entries and the eviction janitor.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group

	store      Store
	now        func() time.Time
	log        *logger.Logger
	metrics    *metrics
	gcInterval time.Duration
	maxEntries int

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

var _ component.Component = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithStore shares fetched data through s.
func WithStore(s Store) ClientOption {
	return func(c *Client) { c.store = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// WithMeter records cache metrics on meter instead of the global one.
func WithMeter(meter metric.Meter) ClientOption {
	return func(c *Client) {
		if m, err := newMetrics(meter); err == nil {
			c.metrics = m
		}
	}
}

// WithGCInterval sets how often the janitor sweeps.
func WithGCInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.gcInterval = d }
}

// WithMaxEntries caps the number of cached keys. Adding a key past the cap
// evicts the least recently read entry that is not being fetched. n <= 0
// keeps DefaultMaxEntries.
func WithMaxEntries(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// NewClient creates a cache client. Call Start to run the janitor.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		entries:    make(map[string]*entry),
		now:        time.Now,
		gcInterval: defaultGCInterval,
		maxEntries: DefaultMaxEntries,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger()
	}
	c.log = c.log.WithComponent("query")
	if c.metrics == nil {
		if m, err := newMetrics(observability.Meter()); err == nil {
			c.metrics = m
		} else {
			c.log.Warn("query metrics disabled", logger.ErrorFields("create instruments", err))
		}
	}
	return c
}

func (c *Client) Name() string { return "query-cache" }

// Start runs the eviction janitor until Stop.
func (c *Client) Start(context.Context) error {
	go c.janitor()
	return nil
}

// Stop halts the janitor and waits for it to exit.
func (c *Client) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() { close(c.stop) })
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Health(context.Context) component.Health {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d entries", n),
	}
}

func (c *Client) janitor() {
	defer close(c.done)
	ticker := time.NewTicker(c.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.GC()
		}
	}
}

// GC evicts entries that have not been read for their GCTime and are not
// being fetched. It returns the number evicted.
func (c *Client) GC() int {
	now := c.now()

	c.mu.Lock()
	var evicted []Key
	for hash, e := range c.entries {
		if e.fetching || now.Sub(e.lastAccess) < e.gcTime {
			continue
		}
		delete(c.entries, hash)
		evicted = append(evicted, e.key)
	}
	c.mu.Unlock()

	for _, k := range evicted {
		c.metrics.evict(context.Background(), k.Scope())
		c.log.Debug("entry evicted", logger.Fields(logger.FieldQueryKey, k.Hash()))
	}
	return len(evicted)
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Invalidate marks every entry whose key starts with prefix as stale. The
// data stays readable until the next fetch replaces it.
func (c *Client) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.invalidated = true
			n++
		}
	}
	return n
}

// Remove drops the entries whose key starts with prefix, including their
// shared-store copies.
func (c *Client) Remove(ctx context.Context, prefix Key) int {
	c.mu.Lock()
	var removed []string
	for hash, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, hash)
			removed = append(removed, hash)
		}
	}
	c.mu.Unlock()

	if c.store != nil {
		for _, hash := range removed {
			if err := c.store.Delete(ctx, hash); err != nil {
				c.log.Warn("shared store delete failed", logger.Fields(logger.FieldQueryKey, hash, logger.FieldError, err.Error()))
			}
		}
	}
	return len(removed)
}

// lookup returns the entry for hash, creating it when missing, and records
// the read. Creating an entry at the cap evicts the least recently read idle
// entry first.
func (c *Client) lookup(key Key, hash string, opts Options) *entry {
	now := c.now()

	c.mu.Lock()
	e, ok := c.entries[hash]
	var evicted *entry
	if !ok {
		if len(c.entries) >= c.maxEntries {
			evicted = c.evictOldestLocked()
		}
		e = &entry{key: key}
		c.entries[hash] = e
	}
	e.staleTime = opts.StaleTime
	e.gcTime = opts.GCTime
	e.lastAccess = now
	c.mu.Unlock()

	if evicted != nil {
		c.metrics.evict(context.Background(), evicted.key.Scope())
		c.log.Debug("entry evicted at capacity", logger.Fields(
			logger.FieldQueryKey, evicted.key.Hash(),
			"max_entries", c.maxEntries,
		))
	}
	return e
}

// evictOldestLocked drops the idle entry read longest ago. Entries with a
// fetch in flight are kept, so the cache can exceed the cap while every entry
// is fetching. c.mu must be held.
func (c *Client) evictOldestLocked() *entry {
	var (
		oldestHash string
		oldest     *entry
	)
	for hash, e := range c.entries {
		if e.fetching {
			continue
		}
		if oldest == nil || e.lastAccess.Before(oldest.lastAccess) {
			oldestHash, oldest = hash, e
		}
	}
	if oldest != nil {
		delete(c.entries, oldestHash)
	}
	return oldest
}
