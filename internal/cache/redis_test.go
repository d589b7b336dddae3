package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, time.Minute), srv
}

// fill stores value the way a read handler does: look up, miss, store under the seen version.
func fill(t *testing.T, c *RedisCache, namespace, key, value string) {
	t.Helper()
	ctx := context.Background()
	_, version, _ := c.Get(ctx, namespace, key)
	c.Set(ctx, namespace, key, version, []byte(value))
}

func TestRedisCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	_, version, ok := c.Get(ctx, Products, "/api/s/products")
	if ok {
		t.Fatalf("expected miss on empty cache")
	}
	if version != 0 {
		t.Fatalf("expected version 0 on a fresh namespace, got %d", version)
	}
	c.Set(ctx, Products, "/api/s/products", version, []byte(`[{"name":"lamp"}]`))
	data, _, ok := c.Get(ctx, Products, "/api/s/products")
	if !ok {
		t.Fatalf("expected hit after Set")
	}
	if string(data) != `[{"name":"lamp"}]` {
		t.Fatalf("unexpected cached value %s", data)
	}
}

func TestRedisCacheInvalidateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	fill(t, c, Brands, "k", "brands")
	fill(t, c, Blogs, "k", "blogs")
	c.Invalidate(ctx, Brands)

	if _, _, ok := c.Get(ctx, Brands, "k"); ok {
		t.Fatalf("expected brands namespace to be invalidated")
	}
	if _, _, ok := c.Get(ctx, Blogs, "k"); !ok {
		t.Fatalf("expected blog namespace to survive")
	}

	fill(t, c, Brands, "k", "fresh")
	if data, _, ok := c.Get(ctx, Brands, "k"); !ok || string(data) != "fresh" {
		t.Fatalf("expected fresh value after re-set, got %q %v", data, ok)
	}
}

func TestRedisCacheLoadRacingInvalidateIsNotServed(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	// A reader misses and starts loading rows.
	_, seen, ok := c.Get(ctx, Products, "list")
	if ok {
		t.Fatalf("expected miss")
	}

	// A writer commits and invalidates before the reader stores its result.
	c.Invalidate(ctx, Products)
	c.Set(ctx, Products, "list", seen, []byte("stale"))

	data, current, ok := c.Get(ctx, Products, "list")
	if ok {
		t.Fatalf("stale response served after invalidation: %s", data)
	}
	if current != seen+1 {
		t.Fatalf("expected version %d, got %d", seen+1, current)
	}
}

func TestRedisCacheEntriesExpire(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedis(t)

	fill(t, c, Categories, "k", "v")
	srv.FastForward(2 * time.Minute)
	if _, _, ok := c.Get(ctx, Categories, "k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestRedisCacheServerDownIsMiss(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedis(t)
	fill(t, c, Products, "k", "v")
	srv.Close()

	_, version, ok := c.Get(ctx, Products, "k")
	if ok {
		t.Fatalf("expected miss when redis is unavailable")
	}
	if version != NoVersion {
		t.Fatalf("expected NoVersion when redis is unavailable, got %d", version)
	}
	// Must not panic.
	c.Set(ctx, Products, "k", version, []byte("v"))
	c.Invalidate(ctx, Products)
}

func TestNoopCache(t *testing.T) {
	var c Cache = Noop{}
	c.Set(context.Background(), Blogs, "k", 0, []byte("v"))
	if _, _, ok := c.Get(context.Background(), Blogs, "k"); ok {
		t.Fatalf("noop cache must never hit")
	}
}
