package models

// GeocodedLocation is a cached reverse-geocoding result.
// A cache hit is valid only while the entry is unexpired and the query point
// lies within the proximity radius of (Latitude, Longitude).
type GeocodedLocation struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`

	FormattedAddress string `json:"formattedAddress,omitempty" db:"formatted_address"`
	City             string `json:"city,omitempty" db:"city"`
	State            string `json:"state,omitempty" db:"state"`
	Country          string `json:"country,omitempty" db:"country"`
	CountryCode      string `json:"countryCode,omitempty" db:"country_code"`
	PostalCode       string `json:"postalCode,omitempty" db:"postal_code"`
	PointOfInterest  string `json:"pointOfInterest,omitempty" db:"poi_name"`

	CachedAt  int64 `json:"cachedAt" db:"cached_at"`   // Unix timestamp
	ExpiresAt int64 `json:"expiresAt" db:"expires_at"` // Unix timestamp
}
