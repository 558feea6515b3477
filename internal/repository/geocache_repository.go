package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// GeocacheRepository persists reverse-geocoding results in sqlite. It backs
// the geocoding cache's Store interface.
type GeocacheRepository struct {
	db *sql.DB
}

// NewGeocacheRepository creates a new geocache repository
func NewGeocacheRepository(db *sql.DB) *GeocacheRepository {
	return &GeocacheRepository{db: db}
}

// QueryBox returns all cached entries inside the bounding box, expired ones
// included.
func (r *GeocacheRepository) QueryBox(minLat, maxLat, minLon, maxLon float64) ([]models.GeocodedLocation, error) {
	rows, err := r.db.Query(`
		SELECT latitude, longitude, formatted_address, city, state, country,
		       country_code, postal_code, poi_name, cached_at, expires_at
		FROM geocache
		WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?
	`, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("failed to query geocache: %w", err)
	}
	defer rows.Close()

	var locations []models.GeocodedLocation
	for rows.Next() {
		var loc models.GeocodedLocation
		err := rows.Scan(
			&loc.Latitude, &loc.Longitude, &loc.FormattedAddress, &loc.City, &loc.State,
			&loc.Country, &loc.CountryCode, &loc.PostalCode, &loc.PointOfInterest,
			&loc.CachedAt, &loc.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geocache entry: %w", err)
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}

// Put stores a geocoding result.
func (r *GeocacheRepository) Put(loc models.GeocodedLocation) error {
	_, err := r.db.Exec(`
		INSERT INTO geocache (
			latitude, longitude, formatted_address, city, state, country,
			country_code, postal_code, poi_name, cached_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		loc.Latitude, loc.Longitude, loc.FormattedAddress, loc.City, loc.State,
		loc.Country, loc.CountryCode, loc.PostalCode, loc.PointOfInterest,
		loc.CachedAt, loc.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert geocache entry: %w", err)
	}
	return nil
}

// DeleteExpired removes entries whose expiry is at or before now and returns
// the number deleted.
func (r *GeocacheRepository) DeleteExpired(now int64) (int64, error) {
	result, err := r.db.Exec("DELETE FROM geocache WHERE expires_at <= ?", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired geocache entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted entries: %w", err)
	}
	return deleted, nil
}

// Clear removes all cached entries.
func (r *GeocacheRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM geocache"); err != nil {
		return fmt.Errorf("failed to clear geocache: %w", err)
	}
	return nil
}
