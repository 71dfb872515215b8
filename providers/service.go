package providers

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/kbukum/marketweb/logger"
	"github.com/kbukum/marketweb/query"
)

// Lister loads providers. *Client implements it.
type Lister interface {
	List(ctx context.Context, filters Filters) ([]Provider, error)
}

// Result is what a page or API call gets back for a listing.
type Result struct {
	// Providers is never nil.
	Providers []Provider `json:"providers"`
	IsLoading bool       `json:"isLoading"`
	IsError   bool       `json:"isError"`
	Err       error      `json:"-"`
	Error     string     `json:"error,omitempty"`
	// UpdatedAt is when Providers was fetched; zero when nothing ever loaded.
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// maxFilterValueLen bounds a single filter value; longer values are dropped.
const maxFilterValueLen = 128

// Service serves provider listings through the query cache.
type Service struct {
	lister  Lister
	cache   *query.Client
	opts    query.Options
	log     *logger.Logger
	allowed map[string]struct{}
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithFilterKeys replaces DefaultFilterKeys as the accepted listing filters.
func WithFilterKeys(keys ...string) ServiceOption {
	return func(s *Service) {
		if len(keys) > 0 {
			s.allowed = keySet(keys)
		}
	}
}

// NewService creates a listing service.
func NewService(lister Lister, cache *query.Client, opts query.Options, log *logger.Logger, options ...ServiceOption) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		lister:  lister,
		cache:   cache,
		opts:    opts,
		log:     log.WithComponent("providers"),
		allowed: keySet(DefaultFilterKeys),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Listing returns the cached listing for filters. Only accepted filter keys
// with short non-empty values are kept, and listings with equal kept filters
// share one cache entry.
func (s *Service) Listing(filters Filters) *Listing {
	filters = s.sanitize(filters)
	fetch := func(ctx context.Context) ([]Provider, error) {
		return s.lister.List(ctx, filters)
	}
	return &Listing{
		query: query.NewQuery(s.cache, ListKey(filters), fetch, s.opts),
		log:   s.log,
	}
}

func (s *Service) sanitize(in Filters) Filters {
	out := Filters{}
	for k, v := range in {
		if _, ok := s.allowed[k]; !ok {
			continue
		}
		if v == "" || utf8.RuneCountInString(v) > maxFilterValueLen {
			continue
		}
		out[k] = v
	}
	return out
}

// InvalidateAll marks every cached listing stale and returns how many there were.
func (s *Service) InvalidateAll() int {
	return s.cache.Invalidate(query.Key{"providers"})
}

// ListKey is the cache key of a listing.
func ListKey(filters Filters) query.Key {
	return query.Key{"providers", "list", filters}
}

// Listing is one filtered provider listing.
type Listing struct {
	query *query.Query[[]Provider]
	log   *logger.Logger
}

// Load returns the listing, fetching only when the cached copy is stale.
func (l *Listing) Load(ctx context.Context) Result {
	return l.result(ctx, l.query.Fetch(ctx))
}

// Refetch fetches the listing regardless of freshness.
func (l *Listing) Refetch(ctx context.Context) Result {
	return l.result(ctx, l.query.Refetch(ctx))
}

// Current returns the cached state without fetching.
func (l *Listing) Current() Result {
	return l.result(context.Background(), l.query.Peek())
}

func (l *Listing) result(ctx context.Context, st query.State[[]Provider]) Result {
	res := Result{
		Providers: st.Data,
		IsLoading: st.IsLoading(),
		IsError:   st.IsError(),
		Err:       st.Err,
	}
	if st.HasData {
		res.UpdatedAt = st.UpdatedAt
	}
	if !st.HasData || res.Providers == nil {
		res.Providers = []Provider{}
	}
	if st.Err != nil {
		res.Error = st.Err.Error()
		if st.HasData {
			l.log.WithContext(ctx).Warn("Serving stale providers after failed fetch", logger.Fields(
				logger.FieldError, st.Err.Error(),
				"stale_since", st.UpdatedAt,
			))
		}
	}
	return res
}
