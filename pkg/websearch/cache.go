package websearch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]Hit, bool)
	Set(ctx context.Context, key string, hits []Hit, ttl time.Duration)
}

// RedisCache shares search results between instances.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]Hit, bool) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var hits []Hit
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, false
	}
	return hits, true
}

func (r *RedisCache) Set(ctx context.Context, key string, hits []Hit, ttl time.Duration) {
	raw, err := json.Marshal(hits)
	if err != nil {
		return
	}
	// best effort, a cache miss only costs one provider call
	_ = r.rdb.Set(ctx, key, raw, ttl).Err()
}

// MemoryCache is the single-instance fallback when Redis is not reachable.
type MemoryCache struct {
	c *cache.Cache
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{c: cache.New(defaultTTL, 2*defaultTTL)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]Hit, bool) {
	if x, found := m.c.Get(key); found {
		return x.([]Hit), true
	}
	return nil, false
}

func (m *MemoryCache) Set(_ context.Context, key string, hits []Hit, ttl time.Duration) {
	m.c.Set(key, hits, ttl)
}
