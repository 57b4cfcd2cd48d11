package entitlement

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lifeplan-server/internal/domain"
)

// Cache stores the last known entitlement snapshot per account. It is an
// injectable dependency owned by the server lifecycle; billing commands and
// sign-out must invalidate the affected account's entry.
type Cache interface {
	// Read returns the stored snapshot, stale or not. Freshness is judged by
	// the caller against the snapshot's ObservedAt.
	Read(ctx context.Context, userID string) (domain.EntitlementSnapshot, bool)
	Write(ctx context.Context, userID string, snap domain.EntitlementSnapshot)
	Invalidate(ctx context.Context, userID string)
}

// MemoryCache is the single-process implementation.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]domain.EntitlementSnapshot
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]domain.EntitlementSnapshot)}
}

func (c *MemoryCache) Read(_ context.Context, userID string) (domain.EntitlementSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.entries[userID]
	return snap, ok
}

func (c *MemoryCache) Write(_ context.Context, userID string, snap domain.EntitlementSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = snap
}

func (c *MemoryCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// RedisCache shares snapshots across API instances. Entries expire at the
// freshness window, so a hit is stale only by clock skew; cache errors
// degrade to misses since the resolver can always rebuild the snapshot.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(userID string) string {
	return "entitlement:" + userID
}

func (c *RedisCache) Read(ctx context.Context, userID string) (domain.EntitlementSnapshot, bool) {
	raw, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		return domain.EntitlementSnapshot{}, false
	}
	var snap domain.EntitlementSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.EntitlementSnapshot{}, false
	}
	return snap, true
}

func (c *RedisCache) Write(ctx context.Context, userID string, snap domain.EntitlementSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(userID), raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) {
	_ = c.client.Del(ctx, cacheKey(userID)).Err()
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*RedisCache)(nil)
)
