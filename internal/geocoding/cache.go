package geocoding

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/spatial"
)

// Store persists geocoding results with TTL awareness.
type Store interface {
	// QueryBox returns all cached entries inside the bounding box, including
	// expired ones; the cache filters by expiry itself.
	QueryBox(minLat, maxLat, minLon, maxLon float64) ([]models.GeocodedLocation, error)
	Put(loc models.GeocodedLocation) error
	DeleteExpired(now int64) (int64, error)
	Clear() error
}

const (
	// DefaultTTL is how long a cached geocoding result stays valid.
	DefaultTTL = 30 * 24 * time.Hour
	// DefaultProximityRadius is the maximum distance in meters between a query
	// point and a cached point for the entry to count as a hit.
	DefaultProximityRadius = 100.0

	metersPerDegreeLat = 111320.0
)

// Cache is a spatial, TTL-based cache in front of a ReverseGeocoder. Lookups
// within one batch are coalesced: concurrent queries for near-identical
// coordinates share a single upstream call.
type Cache struct {
	store     Store
	geocoder  ReverseGeocoder
	ttl       time.Duration
	proximity float64
	now       func() time.Time // injectable clock

	mu       sync.Mutex
	inflight map[string]*inflightLookup
}

type inflightLookup struct {
	done   chan struct{}
	result *models.GeocodedLocation
	err    error
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the default entry TTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// WithProximityRadius overrides the default hit radius in meters.
func WithProximityRadius(radius float64) CacheOption {
	return func(c *Cache) { c.proximity = radius }
}

// WithClock injects a time source for deterministic tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a geocoding cache over a store and an upstream geocoder.
func NewCache(store Store, geocoder ReverseGeocoder, opts ...CacheOption) *Cache {
	c := &Cache{
		store:     store,
		geocoder:  geocoder,
		ttl:       DefaultTTL,
		proximity: DefaultProximityRadius,
		now:       time.Now,
		inflight:  make(map[string]*inflightLookup),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup resolves a coordinate, preferring the cache. On a miss the upstream
// geocoder is invoked and a successful result is cached with the TTL; upstream
// failures are returned without writing to the cache and the caller must treat
// them as "address unknown".
func (c *Cache) Lookup(ctx context.Context, lat, lon float64) (*models.GeocodedLocation, error) {
	if hit, err := c.queryCache(lat, lon); err != nil {
		log.Printf("[GeocodingCache] Cache query failed for (%.5f, %.5f): %v", lat, lon, err)
	} else if hit != nil {
		return hit, nil
	}

	// Coalesce concurrent misses for near-identical coordinates.
	key := coalesceKey(lat, lon)
	c.mu.Lock()
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.result, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &inflightLookup{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	call.result, call.err = c.fetchAndStore(ctx, lat, lon)
	close(call.done)

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()

	return call.result, call.err
}

// queryCache runs the bounding-box pre-filter followed by the exact haversine
// filter and returns the nearest valid unexpired entry, or nil.
func (c *Cache) queryCache(lat, lon float64) (*models.GeocodedLocation, error) {
	latDelta := c.proximity / metersPerDegreeLat
	lonDelta := latDelta / math.Max(math.Cos(lat*math.Pi/180), 0.01)

	entries, err := c.store.QueryBox(lat-latDelta, lat+latDelta, lon-lonDelta, lon+lonDelta)
	if err != nil {
		return nil, fmt.Errorf("failed to query geocache: %w", err)
	}

	now := c.now().Unix()
	var best *models.GeocodedLocation
	bestDist := c.proximity
	for i := range entries {
		e := entries[i]
		if e.ExpiresAt <= now {
			continue
		}
		dist := spatial.HaversineDistance(lat, lon, e.Latitude, e.Longitude)
		if dist <= bestDist {
			best = &entries[i]
			bestDist = dist
		}
	}
	return best, nil
}

func (c *Cache) fetchAndStore(ctx context.Context, lat, lon float64) (*models.GeocodedLocation, error) {
	loc, err := c.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}
	if loc == nil {
		return nil, nil
	}

	now := c.now()
	loc.CachedAt = now.Unix()
	loc.ExpiresAt = now.Add(c.ttl).Unix()

	if err := c.store.Put(*loc); err != nil {
		// The result is still usable even if caching it failed.
		log.Printf("[GeocodingCache] Failed to store entry for (%.5f, %.5f): %v", lat, lon, err)
	}

	return loc, nil
}

// DeleteExpired removes all entries past their TTL.
func (c *Cache) DeleteExpired() (int64, error) {
	return c.store.DeleteExpired(c.now().Unix())
}

// Clear removes every cached entry.
func (c *Cache) Clear() error {
	return c.store.Clear()
}

// coalesceKey buckets coordinates to roughly the proximity radius so that
// nearby lookups share one upstream call.
func coalesceKey(lat, lon float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lon)
}
