package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/marketweb/component"
	"github.com/kbukum/marketweb/logger"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, Config) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, Config{Enabled: true, Addr: mr.Addr(), KeyPrefix: "test"}
}

// newTestClient creates a Client backed by miniredis.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, cfg := setupMiniRedis(t)
	c, err := New(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.KeyPrefix != "marketweb" {
		t.Errorf("expected key prefix marketweb, got %q", cfg.KeyPrefix)
	}
	if cfg.PoolSize != 10 {
		t.Errorf("expected pool size 10, got %d", cfg.PoolSize)
	}
	if cfg.DialTimeout != 5*time.Second {
		t.Errorf("expected dial timeout 5s, got %s", cfg.DialTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config should skip validation, got %v", err)
	}

	cfg.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled config without addr")
	}
}

func TestNewDisabled(t *testing.T) {
	if _, err := New(Config{}, logger.Nop()); err == nil {
		t.Fatal("expected error for disabled config")
	}
}

func TestClientGetSetDel(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	_, found, err := c.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("expected missing key to be not found")
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !mr.Exists("test:k") {
		t.Error("expected key to be namespaced as test:k")
	}

	v, found, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || string(v) != "v" {
		t.Errorf("expected v, got %q (found=%v)", v, found)
	}

	mr.FastForward(2 * time.Minute)
	if _, found, _ = c.Get(ctx, "k"); found {
		t.Error("ttl should expire the key")
	}

	if err := c.Set(ctx, "d", []byte("x"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Del(ctx, "d"); err != nil {
		t.Fatalf("Del failed: %v", err)
	}
	if mr.Exists("test:d") {
		t.Error("expected test:d to be deleted")
	}
}

func TestClientDeletePrefix(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	for _, k := range []string{"q:a", "q:b", "other"} {
		if err := c.Set(ctx, k, []byte("1"), 0); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	n, err := c.DeletePrefix(ctx, "q:")
	if err != nil {
		t.Fatalf("DeletePrefix failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	if !mr.Exists("test:other") {
		t.Error("expected keys outside the prefix to survive")
	}
}

type testEntry struct {
	Items []string `json:"items"`
}

func TestJSONStore(t *testing.T) {
	c, _ := newTestClient(t)
	store := NewJSONStore[testEntry](c, "query")
	ctx := context.Background()

	got, err := store.Load(ctx, "providers")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing key, got %+v", got)
	}

	if err := store.Save(ctx, "providers", &testEntry{Items: []string{"a"}}, time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err = store.Load(ctx, "providers")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || len(got.Items) != 1 || got.Items[0] != "a" {
		t.Fatalf("expected items [a], got %+v", got)
	}

	if err := store.Delete(ctx, "providers"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ = store.Load(ctx, "providers"); got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}

	if err := store.Save(ctx, "x", &testEntry{}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	n, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 cleared, got %d", n)
	}
}

func TestJSONStoreDecodeError(t *testing.T) {
	c, mr := newTestClient(t)

	if err := mr.Set("test:query:bad", "{not json"); err != nil {
		t.Fatalf("miniredis Set failed: %v", err)
	}
	if _, err := NewJSONStore[map[string]any](c, "query").Load(context.Background(), "bad"); err == nil {
		t.Error("expected decode error")
	}
}

func TestComponentLifecycle(t *testing.T) {
	mr, cfg := setupMiniRedis(t)
	comp := NewComponent(cfg, logger.Nop())
	ctx := context.Background()

	if st := comp.Health(ctx).Status; st != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", st)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if comp.Client() == nil {
		t.Fatal("expected client after start")
	}
	if st := comp.Health(ctx).Status; st != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", st)
	}

	mr.Close()
	if st := comp.Health(ctx).Status; st != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after server loss, got %s", st)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Errorf("stop should be idempotent, got %v", err)
	}
}

func TestComponentStartFailsWithoutServer(t *testing.T) {
	comp := NewComponent(Config{Enabled: true, Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: 1}, logger.Nop())
	if err := comp.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail without a server")
	}
}
