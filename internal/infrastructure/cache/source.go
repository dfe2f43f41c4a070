package cache

import (
	"context"
	"log"

	"github.com/dbklik/recapdash/internal/domain"
)

// CachedSource decorates a SnapshotSource with the snapshot cache,
// reloading only when the cache is empty or stale.
type CachedSource struct {
	cache  *SnapshotCache
	source domain.SnapshotSource
}

// NewCachedSource wraps source with cache.
func NewCachedSource(c *SnapshotCache, source domain.SnapshotSource) *CachedSource {
	return &CachedSource{cache: c, source: source}
}

// Load returns the cached snapshot when fresh, otherwise reloads from
// the underlying source and refreshes the cache.
func (s *CachedSource) Load(ctx context.Context) (*domain.Snapshot, error) {
	if snap, err := s.cache.Get(); err == nil {
		return snap, nil
	}

	snap, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(snap)
	log.Printf("[CACHE] snapshot reloaded: %d listings, %d catalog entries",
		len(snap.Listings), len(snap.Catalog))
	return snap, nil
}

// Refresh invalidates the cache and forces a reload.
func (s *CachedSource) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	s.cache.Invalidate()
	return s.Load(ctx)
}
