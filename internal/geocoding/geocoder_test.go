package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimClientReverseGeocode(t *testing.T) {
	t.Run("maps the address fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/reverse", r.URL.Path)
			assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"name": "Museumsinsel",
				"display_name": "Museumsinsel, Mitte, Berlin, Germany",
				"category": "tourism",
				"type": "attraction",
				"address": {
					"tourism": "Museumsinsel",
					"city": "Berlin",
					"state": "Berlin",
					"country": "Germany",
					"country_code": "de",
					"postcode": "10178"
				}
			}`))
		}))
		defer server.Close()

		client := NewNominatimClient(server.URL, "test-agent")
		loc, err := client.ReverseGeocode(context.Background(), 52.5169, 13.4010)
		require.NoError(t, err)
		require.NotNil(t, loc)

		assert.Equal(t, "Berlin", loc.City)
		assert.Equal(t, "Germany", loc.Country)
		assert.Equal(t, "de", loc.CountryCode)
		assert.Equal(t, "10178", loc.PostalCode)
		assert.Equal(t, "Museumsinsel", loc.PointOfInterest)
		assert.Equal(t, "Museumsinsel, Mitte, Berlin, Germany", loc.FormattedAddress)
	})

	t.Run("town and village fall back as city", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"display_name": "x", "address": {"village": "Kleindorf", "country": "Germany"}}`))
		}))
		defer server.Close()

		client := NewNominatimClient(server.URL, "")
		loc, err := client.ReverseGeocode(context.Background(), 50, 10)
		require.NoError(t, err)
		require.NotNil(t, loc)
		assert.Equal(t, "Kleindorf", loc.City)
	})

	t.Run("unable to geocode yields nil without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "Unable to geocode"}`))
		}))
		defer server.Close()

		client := NewNominatimClient(server.URL, "")
		loc, err := client.ReverseGeocode(context.Background(), 0, -30)
		require.NoError(t, err)
		assert.Nil(t, loc)
	})

	t.Run("http errors surface", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewNominatimClient(server.URL, "")
		_, err := client.ReverseGeocode(context.Background(), 52.52, 13.405)
		assert.Error(t, err)
	})
}
