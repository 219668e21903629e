package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTimelineCacheTTL bounds how stale the cached global timeline may be.
const DefaultTimelineCacheTTL = 20 * time.Second

const timelineCacheKey = "cache:timeline:global"

// TimelineCache is a single process-wide slot holding the rendered global
// timeline. It is populated on miss, served until the TTL elapses or Clear
// is called, and deliberately NOT invalidated by post mutations: staleness
// up to the TTL is traded for read throughput.
//
// A reachable Redis backs the slot so it is shared across instances;
// otherwise an in-process copy with the same TTL semantics is used.
type TimelineCache struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	payload  []byte
	storedAt time.Time
}

func NewTimelineCache(rdb *redis.Client, ttl time.Duration) *TimelineCache {
	if ttl <= 0 {
		ttl = DefaultTimelineCacheTTL
	}
	return &TimelineCache{rdb: rdb, ttl: ttl, now: time.Now}
}

// Get returns the cached rendering, if any is still live.
func (c *TimelineCache) Get() ([]byte, bool) {
	if c.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		b, err := c.rdb.Get(ctx, timelineCacheKey).Bytes()
		if err != nil {
			return nil, false
		}
		return b, true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.payload == nil || c.now().Sub(c.storedAt) >= c.ttl {
		return nil, false
	}
	return c.payload, true
}

// Set stores a fresh rendering, restarting the TTL window.
func (c *TimelineCache) Set(b []byte) {
	if c.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = c.rdb.Set(ctx, timelineCacheKey, b, c.ttl).Err()
		return
	}
	c.mu.Lock()
	c.payload = b
	c.storedAt = c.now()
	c.mu.Unlock()
}

// Clear drops the slot immediately, forcing the next read to re-render
// before the TTL would have expired.
func (c *TimelineCache) Clear() {
	if c.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = c.rdb.Del(ctx, timelineCacheKey).Err()
		return
	}
	c.mu.Lock()
	c.payload = nil
	c.mu.Unlock()
}
