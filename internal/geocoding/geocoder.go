package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// ReverseGeocoder resolves a coordinate to an address. May fail transiently;
// callers must treat failures as "address unknown", never as fatal.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (*models.GeocodedLocation, error)
}

// NominatimClient is a ReverseGeocoder backed by the Nominatim API.
// Respects Nominatim's 1 request/second rate limit.
type NominatimClient struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	lastRequest time.Time
	rateMu      sync.Mutex
}

// NewNominatimClient creates a Nominatim reverse geocoding client.
// baseURL defaults to the public instance when empty.
func NewNominatimClient(baseURL, userAgent string) *NominatimClient {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// nominatimResponse represents the JSON response from the Nominatim reverse API
type nominatimResponse struct {
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	Type        string           `json:"type"`
	Category    string           `json:"category"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}

type nominatimAddress struct {
	Amenity     string `json:"amenity,omitempty"`
	Tourism     string `json:"tourism,omitempty"`
	City        string `json:"city,omitempty"`
	Town        string `json:"town,omitempty"`
	Village     string `json:"village,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}

// ReverseGeocode queries Nominatim for the address at a coordinate.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (*models.GeocodedLocation, error) {
	// Rate limit: 1 request per second
	c.rateMu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < time.Second {
		select {
		case <-time.After(time.Second - elapsed):
		case <-ctx.Done():
			c.rateMu.Unlock()
			return nil, ctx.Err()
		}
	}
	c.lastRequest = time.Now()
	c.rateMu.Unlock()

	reqURL := fmt.Sprintf("%s/reverse?lat=%s&lon=%s&format=jsonv2",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lon)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build reverse geocode request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call reverse geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocoder returned status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}
	if body.Error != "" {
		// Nominatim reports "unable to geocode" for open ocean etc.
		return nil, nil
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}

	poi := body.Address.Amenity
	if poi == "" {
		poi = body.Address.Tourism
	}
	if poi == "" && body.Category != "place" {
		poi = body.Name
	}

	return &models.GeocodedLocation{
		Latitude:         lat,
		Longitude:        lon,
		FormattedAddress: body.DisplayName,
		City:             city,
		State:            body.Address.State,
		Country:          body.Address.Country,
		CountryCode:      body.Address.CountryCode,
		PostalCode:       body.Address.Postcode,
		PointOfInterest:  poi,
	}, nil
}
