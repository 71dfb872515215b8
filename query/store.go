package query

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kbukum/marketweb/redis"
)

// StoredEntry is the shared-store form of a successful fetch.
type StoredEntry struct {
	UpdatedAt time.Time       `json:"updatedAt"`
	Data      json.RawMessage `json:"data"`
}

// Store shares fetched data between instances. Misses return (nil, nil).
type Store interface {
	Load(ctx context.Context, hash string) (*StoredEntry, error)
	Save(ctx context.Context, hash string, e *StoredEntry, ttl time.Duration) error
	Delete(ctx context.Context, hash string) error
}

// RedisStore keeps entries in Redis under the "query" namespace.
type RedisStore struct {
	client func() *redis.Client

	mu    sync.Mutex
	store *redis.JSONStore[StoredEntry]
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store on client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return NewLazyRedisStore(func() *redis.Client { return client })
}

// NewLazyRedisStore resolves the client on first use, so the store can be
// built before the Redis component has started. It acts as an empty store
// while client returns nil.
func NewLazyRedisStore(client func() *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) get() *redis.JSONStore[StoredEntry] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		if c := s.client(); c != nil {
			s.store = redis.NewJSONStore[StoredEntry](c, "query")
		}
	}
	return s.store
}

func (s *RedisStore) Load(ctx context.Context, hash string) (*StoredEntry, error) {
	st := s.get()
	if st == nil {
		return nil, nil
	}
	return st.Load(ctx, hash)
}

func (s *RedisStore) Save(ctx context.Context, hash string, e *StoredEntry, ttl time.Duration) error {
	st := s.get()
	if st == nil {
		return nil
	}
	return st.Save(ctx, hash, e, ttl)
}

func (s *RedisStore) Delete(ctx context.Context, hash string) error {
	st := s.get()
	if st == nil {
		return nil
	}
	return st.Delete(ctx, hash)
}
