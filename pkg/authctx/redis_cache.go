package authctx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache caches resolved profiles in Redis, letting multiple instances
// of the service share one profile cache.
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed profile cache.
// The prefix namespaces cache keys; pass "" for the default.
func NewRedisCache(client *redis.Client, prefix string) Cache {
	if client == nil {
		panic("authctx: redis client is required")
	}
	if prefix == "" {
		prefix = "authctx:profile:"
	}
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Profile, bool) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		// Cache misses and transient redis failures both fall through to
		// the provider; the cache is never authoritative.
		return nil, false
	}

	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		c.client.Del(ctx, c.prefix+key)
		return nil, false
	}
	return &profile, true
}

func (c *redisCache) Set(ctx context.Context, key string, profile *Profile, ttl time.Duration) {
	if profile == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.prefix+key, raw, ttl)
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	c.client.Del(ctx, c.prefix+key)
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
