package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// JSONStore stores values of type V as JSON under a key namespace.
type JSONStore[V any] struct {
	client    *Client
	namespace string
}

// NewJSONStore creates a store whose keys live under namespace.
func NewJSONStore[V any](client *Client, namespace string) *JSONStore[V] {
	return &JSONStore[V]{client: client, namespace: namespace}
}

func (s *JSONStore[V]) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

// Load decodes the value at key. It returns (nil, nil) when the key is missing.
func (s *JSONStore[V]) Load(ctx context.Context, key string) (*V, error) {
	raw, found, err := s.client.Get(ctx, s.key(key))
	if err != nil {
		return nil, fmt.Errorf("json store load %q: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("json store decode %q: %w", key, err)
	}
	return &v, nil
}

// Save encodes v at key with ttl. A zero ttl keeps the key forever.
func (s *JSONStore[V]) Save(ctx context.Context, key string, v *V, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json store encode %q: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl); err != nil {
		return fmt.Errorf("json store save %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *JSONStore[V]) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key))
}

// Clear removes every key in the namespace.
func (s *JSONStore[V]) Clear(ctx context.Context) (int, error) {
	return s.client.DeletePrefix(ctx, s.key(""))
}
