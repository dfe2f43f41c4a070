package cache

import (
	"sync"
	"time"

	"github.com/dbklik/recapdash/internal/domain"
)

// SnapshotCache holds the last loaded workbook snapshot together with
// its load timestamp. It is owned and passed around explicitly by the
// caller; staleness is reported, never silently repaired, and
// Invalidate is the only eviction path.
type SnapshotCache struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
	ttl  time.Duration
}

// NewSnapshotCache creates a cache with the given staleness TTL.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SnapshotCache{ttl: ttl}
}

// Get returns the cached snapshot, ErrSnapshotMissing if nothing has
// been loaded, or ErrStaleSnapshot past the TTL.
func (c *SnapshotCache) Get() (*domain.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap == nil {
		return nil, domain.ErrSnapshotMissing
	}
	if time.Since(c.snap.LoadedAt) > c.ttl {
		return nil, domain.ErrStaleSnapshot
	}
	return c.snap, nil
}

// Put replaces the cached snapshot.
func (c *SnapshotCache) Put(snap *domain.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}

// LoadedAt reports when the cached snapshot was loaded, if any.
func (c *SnapshotCache) LoadedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap == nil {
		return time.Time{}, false
	}
	return c.snap.LoadedAt, true
}
