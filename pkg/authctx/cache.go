package authctx

import (
	"context"
	"sync"
	"time"
)

// Cache is the interface for profile caching implementations, keyed by the
// opaque credential that resolved the profile.
type Cache interface {
	// Get retrieves a profile from cache by key.
	Get(ctx context.Context, key string) (*Profile, bool)

	// Set stores a profile in cache with the given TTL.
	Set(ctx context.Context, key string, profile *Profile, ttl time.Duration)

	// Delete removes a profile from cache.
	Delete(ctx context.Context, key string)

	// Close releases any resources held by the cache.
	Close() error
}

const cleanupInterval = time.Minute

type cacheItem struct {
	profile   *Profile
	expiresAt time.Time
}

// memoryCache is the default in-memory cache with TTL expiration.
type memoryCache struct {
	mu     sync.RWMutex
	items  map[string]cacheItem
	stop   chan struct{}
	closed bool
}

// NewMemoryCache creates an in-memory profile cache with background cleanup.
func NewMemoryCache() Cache {
	c := &memoryCache{
		items: make(map[string]cacheItem),
		stop:  make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *memoryCache) Get(ctx context.Context, key string) (*Profile, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		return nil, false
	}
	cp := *item.profile
	return &cp, true
}

func (c *memoryCache) Set(ctx context.Context, key string, profile *Profile, ttl time.Duration) {
	if profile == nil || ttl <= 0 {
		return
	}
	cp := *profile

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.items[key] = cacheItem{profile: &cp, expiresAt: time.Now().Add(ttl)}
}

func (c *memoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.stop)
	}
	return nil
}

func (c *memoryCache) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
