package cache

import (
	"context"
	"testing"
	"time"
)

// recordingCache captures keys passed through to the inner backend.
type recordingCache struct {
	store map[string][]byte
}

func newRecordingCache() *recordingCache {
	return &recordingCache{store: make(map[string][]byte)}
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok := c.store[key]
	return data, ok, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.store[key] = data
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func (c *recordingCache) Close() error { return nil }

func TestScopedCachePrefixesKeys(t *testing.T) {
	ctx := context.Background()
	inner := newRecordingCache()
	scoped := NewScopedCache(inner, "api:")

	if err := scoped.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := inner.store["api:key"]; !ok {
		t.Errorf("inner keys = %v, want api:key", inner.store)
	}

	data, hit, err := scoped.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := scoped.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if len(inner.store) != 0 {
		t.Errorf("Delete should remove the prefixed key, store = %v", inner.store)
	}
}

func TestScopedCacheIsolation(t *testing.T) {
	ctx := context.Background()
	inner := newRecordingCache()
	cliScope := NewScopedCache(inner, "cli:")
	apiScope := NewScopedCache(inner, "api:")

	if err := cliScope.Set(ctx, "key", []byte("cli"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := apiScope.Get(ctx, "key"); hit {
		t.Error("scopes sharing a backend should not see each other's keys")
	}
}

func TestScopedCacheNilInner(t *testing.T) {
	ctx := context.Background()
	scoped := NewScopedCache(nil, "x:")

	if err := scoped.Set(ctx, "key", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := scoped.Get(ctx, "key"); hit {
		t.Error("nil inner should behave like the null cache")
	}
}
