package service

import (
	"context"
	"log"

	"github.com/jengzang/journeys-backend-go/internal/geocoding"
	"github.com/jengzang/journeys-backend-go/internal/models"
)

// GeocodingService exposes cache maintenance and ad-hoc lookups
type GeocodingService struct {
	cache *geocoding.Cache
}

// NewGeocodingService creates a new geocoding service
func NewGeocodingService(cache *geocoding.Cache) *GeocodingService {
	return &GeocodingService{cache: cache}
}

// Lookup resolves a coordinate through the cache.
func (s *GeocodingService) Lookup(ctx context.Context, lat, lon float64) (*models.GeocodedLocation, error) {
	return s.cache.Lookup(ctx, lat, lon)
}

// PurgeExpired removes expired cache entries and returns the number deleted.
func (s *GeocodingService) PurgeExpired() (int64, error) {
	deleted, err := s.cache.DeleteExpired()
	if err != nil {
		return 0, err
	}
	log.Printf("[GeocodingService] Purged %d expired cache entries", deleted)
	return deleted, nil
}

// ClearCache removes all cached entries.
func (s *GeocodingService) ClearCache() error {
	return s.cache.Clear()
}
