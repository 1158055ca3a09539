package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"landprice_service/internal/domain/model"
)

type cacheEntry struct {
	places    []model.Place
	expiresAt time.Time
}

// CachedPlaceLookup memoizes successful lookups for a fixed TTL.
// Failed lookups are not cached.
type CachedPlaceLookup struct {
	next model.PlaceLookup
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCachedPlaceLookup(next model.PlaceLookup, ttl time.Duration) *CachedPlaceLookup {
	return &CachedPlaceLookup{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedPlaceLookup) NearbyPlaces(
	ctx context.Context,
	origin model.LocationPoint,
	radiusMeters int,
	category model.AmenityCategory,
) ([]model.Place, error) {
	key := cacheKey(origin, radiusMeters, category)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		return clonePlaces(entry.places), nil
	}

	places, err := c.next.NearbyPlaces(ctx, origin, radiusMeters, category)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{places: clonePlaces(places), expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return places, nil
}

// Purge drops expired entries and returns how many were removed.
func (c *CachedPlaceLookup) Purge() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Run purges expired entries every interval until ctx is done.
func (c *CachedPlaceLookup) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}

// cacheKey rounds the origin to ~1 m.
func cacheKey(origin model.LocationPoint, radiusMeters int, category model.AmenityCategory) string {
	return fmt.Sprintf("%.5f,%.5f|%d|%s", origin.Latitude, origin.Longitude, radiusMeters, category.ID)
}

func clonePlaces(places []model.Place) []model.Place {
	out := make([]model.Place, len(places))
	copy(out, places)
	return out
}
