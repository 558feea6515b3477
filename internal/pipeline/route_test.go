package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

func testVisit(id string, start, end int64, lat, lon float64) models.PlaceVisit {
	return models.PlaceVisit{
		ID:        id,
		UserID:    "u1",
		StartTime: start,
		EndTime:   end,
		Latitude:  lat,
		Longitude: lon,
	}
}

func TestBuildRoutes(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("fewer than two visits yields nothing", func(t *testing.T) {
		assert.Empty(t, BuildRoutes([]models.PlaceVisit{testVisit("v1", 0, 100, 0, 0)}, nil, cfg))
	})

	t.Run("one route per visit pair", func(t *testing.T) {
		visits := []models.PlaceVisit{
			testVisit("v1", 0, 1000, 52.52, 13.40),
			testVisit("v2", 2000, 3000, 52.53, 13.42),
			testVisit("v3", 4000, 5000, 52.54, 13.44),
		}
		routes := BuildRoutes(visits, nil, cfg)
		require.Len(t, routes, 2)
		assert.Equal(t, int64(1000), routes[0].StartTime)
		assert.Equal(t, int64(2000), routes[0].EndTime)
		assert.Equal(t, int64(3000), routes[1].StartTime)
	})

	t.Run("degenerate gap without samples", func(t *testing.T) {
		visits := []models.PlaceVisit{
			testVisit("v1", 0, 1000, 52.52, 13.40),
			testVisit("v2", 2000, 3000, 52.53, 13.42),
		}
		routes := BuildRoutes(visits, nil, cfg)
		require.Len(t, routes, 1)

		r := routes[0]
		assert.Equal(t, models.TransportUnknown, r.Transport)
		require.Len(t, r.Path, 2)
		assert.Equal(t, 52.52, r.Path[0].Lat)
		assert.Equal(t, 52.53, r.Path[1].Lat)
		assert.Greater(t, r.DistanceMeters, 0.0)
	})

	t.Run("gap samples drive classification and path", func(t *testing.T) {
		visits := []models.PlaceVisit{
			testVisit("v1", 0, 1000, 0, 0),
			testVisit("v2", 2000, 3000, 0, 0.02),
		}

		walkSpeed := 5.0 / 3.6
		var gap []models.LocationSample
		for i := 0; i < 5; i++ {
			gap = append(gap, models.LocationSample{
				ID:        fmt.Sprintf("g-%d", i),
				UserID:    "u1",
				Timestamp: 1100 + int64(i)*100,
				Latitude:  0,
				Longitude: 0.003 * float64(i+1),
				Accuracy:  10,
				Speed:     &walkSpeed,
			})
		}

		routes := BuildRoutes(visits, gap, cfg)
		require.Len(t, routes, 1)

		r := routes[0]
		assert.Equal(t, models.TransportWalk, r.Transport)
		assert.Greater(t, r.DistanceMeters, 0.0)
		// path endpoints anchor at the visit centers
		assert.Equal(t, models.PathPoint{Lat: 0, Lon: 0, Timestamp: 1000}, r.Path[0])
		assert.Equal(t, models.PathPoint{Lat: 0, Lon: 0.02, Timestamp: 2000}, r.Path[len(r.Path)-1])
	})

	t.Run("samples outside the gap are ignored", func(t *testing.T) {
		visits := []models.PlaceVisit{
			testVisit("v1", 0, 1000, 0, 0),
			testVisit("v2", 2000, 3000, 0, 0.02),
		}
		samples := []models.LocationSample{
			{ID: "before", Timestamp: 500, Latitude: 5, Longitude: 5},
			{ID: "after", Timestamp: 2500, Latitude: 5, Longitude: 5},
		}
		routes := BuildRoutes(visits, samples, cfg)
		require.Len(t, routes, 1)
		assert.Equal(t, models.TransportUnknown, routes[0].Transport)
		assert.Len(t, routes[0].Path, 2)
	})
}

func TestSamplesInWindow(t *testing.T) {
	samples := []models.LocationSample{
		{ID: "a", Timestamp: 100},
		{ID: "b", Timestamp: 200},
		{ID: "c", Timestamp: 300},
		{ID: "d", Timestamp: 400},
	}

	got := samplesInWindow(samples, 100, 400)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
