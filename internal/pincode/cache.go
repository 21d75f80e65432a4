package pincode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"udyam/pkg/platform/sentinel"
)

func cacheKey(code string) string {
	return "pincode:" + code
}

type cachedLocality struct {
	locality Locality
	storedAt time.Time
}

// InMemoryCache keeps localities in process until the TTL passes.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedLocality
	ttl     time.Duration
	now     func() time.Time
}

func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]cachedLocality),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns sentinel.ErrNotFound for missing or expired entries.
func (c *InMemoryCache) Get(_ context.Context, code string) (*Locality, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cached, ok := c.entries[cacheKey(code)]; ok && c.now().Sub(cached.storedAt) < c.ttl {
		loc := cached.locality
		return &loc, nil
	}
	return nil, sentinel.ErrNotFound
}

func (c *InMemoryCache) Set(_ context.Context, loc *Locality) error {
	if loc == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(loc.Pincode)] = cachedLocality{locality: *loc, storedAt: c.now()}
	return nil
}

// RedisCache stores localities as JSON with a Redis-side expiry.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, code string) (*Locality, error) {
	raw, err := c.client.Get(ctx, cacheKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get pincode: %w", err)
	}
	var loc Locality
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("decode cached pincode: %w", err)
	}
	return &loc, nil
}

func (c *RedisCache) Set(ctx context.Context, loc *Locality) error {
	if loc == nil {
		return nil
	}
	raw, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encode pincode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(loc.Pincode), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set pincode: %w", err)
	}
	return nil
}
