package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/flowpark/backend/internal/domain"
)

type entry struct {
	snapshot  domain.UrbanSnapshot
	expiresAt time.Time
}

// SnapshotCache holds at most one snapshot per city. Entries are replaced
// wholesale and expired lazily: an expired entry stays in the map until the
// next Put for its city overwrites it. Size is naturally bounded by the
// fixed set of supported cities.
type SnapshotCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

// New creates a snapshot cache with the given time-to-live.
func New(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached snapshot for a city if one exists and has not
// expired at the given instant.
func (c *SnapshotCache) Get(city string, now time.Time) (domain.UrbanSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[strings.ToLower(city)]
	if !ok || !now.Before(e.expiresAt) {
		return domain.UrbanSnapshot{}, false
	}
	return e.snapshot, true
}

// Put stores a snapshot, unconditionally replacing any prior entry.
func (c *SnapshotCache) Put(city string, snapshot domain.UrbanSnapshot, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[strings.ToLower(city)] = entry{
		snapshot:  snapshot,
		expiresAt: now.Add(c.ttl),
	}
}
