package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "catalog"

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Dial parses a redis:// URL, connects and pings the server.
func Dial(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, ttl), nil
}

// Close releases the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func versionKey(namespace string) string {
	return fmt.Sprintf("%s:ver:%s", keyPrefix, namespace)
}

func entryKey(namespace string, version Version, key string) string {
	return fmt.Sprintf("%s:%s:%d:%s", keyPrefix, namespace, version, key)
}

func (r *RedisCache) version(ctx context.Context, namespace string) (Version, error) {
	v, err := r.client.Get(ctx, versionKey(namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return NoVersion, err
	}
	return Version(v), nil
}

// Get returns the cached value and the namespace version it was looked up under.
// Any Redis failure counts as a miss.
func (r *RedisCache) Get(ctx context.Context, namespace, key string) ([]byte, Version, bool) {
	v, err := r.version(ctx, namespace)
	if err != nil {
		log.Printf("[cache] version %s: %v", namespace, err)
		return nil, NoVersion, false
	}
	data, err := r.client.Get(ctx, entryKey(namespace, v, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] get %s: %v", key, err)
		}
		return nil, v, false
	}
	return data, v, true
}

// Set stores value under the version returned by the Get that missed. If the namespace has
// been invalidated since, the entry lands in a retired generation and is never read.
func (r *RedisCache) Set(ctx context.Context, namespace, key string, version Version, value []byte) {
	if version < 0 {
		return
	}
	if err := r.client.Set(ctx, entryKey(namespace, version, key), value, r.ttl).Err(); err != nil {
		log.Printf("[cache] set %s: %v", key, err)
	}
}

// Invalidate bumps the version of every given namespace.
func (r *RedisCache) Invalidate(ctx context.Context, namespaces ...string) {
	if len(namespaces) == 0 {
		return
	}
	pipe := r.client.TxPipeline()
	for _, ns := range namespaces {
		pipe.Incr(ctx, versionKey(ns))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[cache] invalidate %v: %v", namespaces, err)
	}
}
