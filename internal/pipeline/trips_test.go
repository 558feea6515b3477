package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/spatial"
)

func strptr(s string) *string { return &s }

func namedVisit(id string, start, end int64, lat, lon float64, city, countryCode string) models.PlaceVisit {
	v := testVisit(id, start, end, lat, lon)
	if city != "" {
		v.City = strptr(city)
	}
	if countryCode != "" {
		v.CountryCode = strptr(countryCode)
	}
	return v
}

func TestDetectTripsHomeDistance(t *testing.T) {
	cfg := DefaultConfig()
	home := &HomeLocation{Center: spatial.Point{Lat: 52.52, Lon: 13.405}}

	// home (Berlin), 3 days in Paris (~880km away), home again
	visits := []models.PlaceVisit{
		namedVisit("h1", 0, 10*3600, 52.52, 13.405, "Berlin", "DE"),
		namedVisit("p1", 1*daySeconds, 1*daySeconds+10*3600, 48.8566, 2.3522, "Paris", "FR"),
		namedVisit("p2", 2*daySeconds, 2*daySeconds+10*3600, 48.8600, 2.3400, "Paris", "FR"),
		namedVisit("p3", 3*daySeconds, 3*daySeconds+10*3600, 48.8530, 2.3499, "Paris", "FR"),
		namedVisit("h2", 4*daySeconds, 4*daySeconds+10*3600, 52.52, 13.405, "Berlin", "DE"),
	}

	trips := DetectTrips(visits, nil, home, cfg)
	require.Len(t, trips, 1)

	trip := trips[0]
	assert.Equal(t, []string{"p1", "p2", "p3"}, trip.VisitIDs)
	assert.Equal(t, visits[1].StartTime, trip.StartTime)
	require.NotNil(t, trip.EndTime)
	assert.Equal(t, visits[3].EndTime, *trip.EndTime)
	assert.Equal(t, []string{"FR"}, trip.Countries)
	assert.Equal(t, "Paris", trip.MainDestination)

	t.Run("trailing away run stays open", func(t *testing.T) {
		open := DetectTrips(visits[:4], nil, home, cfg)
		require.Len(t, open, 1)
		assert.True(t, open[0].Ongoing())
	})

	t.Run("short away runs are ignored", func(t *testing.T) {
		short := []models.PlaceVisit{
			namedVisit("h1", 0, 10*3600, 52.52, 13.405, "Berlin", "DE"),
			// two hours away, below the minimum trip duration
			namedVisit("x1", 12*3600, 14*3600, 48.8566, 2.3522, "Paris", "FR"),
			namedVisit("h2", 20*3600, 24*3600, 52.52, 13.405, "Berlin", "DE"),
		}
		assert.Empty(t, DetectTrips(short, nil, home, cfg))
	})
}

func TestDetectTripsGapReturn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TripHeuristic = HeuristicGapReturn

	t.Run("long gap starts a new trip", func(t *testing.T) {
		visits := []models.PlaceVisit{
			namedVisit("a1", 0, 10*3600, 48.8566, 2.3522, "Paris", "FR"),
			namedVisit("a2", 1*daySeconds, 1*daySeconds+10*3600, 48.9500, 2.4500, "Paris", "FR"),
			// 3 day gap
			namedVisit("b1", 5*daySeconds, 5*daySeconds+10*3600, 41.39, 2.17, "Barcelona", "ES"),
		}

		trips := DetectTrips(visits, nil, nil, cfg)
		require.Len(t, trips, 2)
		assert.Equal(t, []string{"a1", "a2"}, trips[0].VisitIDs)
		assert.False(t, trips[0].Ongoing())
		assert.Equal(t, []string{"b1"}, trips[1].VisitIDs)
		assert.True(t, trips[1].Ongoing())
	})

	t.Run("return to the first visit closes the trip", func(t *testing.T) {
		visits := []models.PlaceVisit{
			namedVisit("start", 0, 2*3600, 52.52, 13.405, "Berlin", "DE"),
			namedVisit("away", 10*3600, 20*3600, 48.8566, 2.3522, "Paris", "FR"),
			// back within the return radius of "start"
			namedVisit("back", 30*3600, 40*3600, 52.521, 13.406, "Berlin", "DE"),
		}

		trips := DetectTrips(visits, nil, nil, cfg)
		require.Len(t, trips, 2)
		assert.Equal(t, []string{"start", "away"}, trips[0].VisitIDs)
		assert.Equal(t, []string{"back"}, trips[1].VisitIDs)
	})

	t.Run("used as fallback when home is unknown", func(t *testing.T) {
		homeFirst := DefaultConfig() // home-distance heuristic
		visits := []models.PlaceVisit{
			namedVisit("a1", 0, 10*3600, 48.8566, 2.3522, "Paris", "FR"),
			namedVisit("b1", 5*daySeconds, 5*daySeconds+10*3600, 41.39, 2.17, "Barcelona", "ES"),
		}
		trips := DetectTrips(visits, nil, nil, homeFirst)
		assert.Len(t, trips, 2)
	})
}

func TestFinalizeTrip(t *testing.T) {
	run := visitRun{visits: []models.PlaceVisit{
		namedVisit("v1", 1000, 2000, 48.85, 2.35, "Paris", "FR"),
		namedVisit("v2", 3000, 4000, 48.86, 2.34, "Paris", "FR"),
		namedVisit("v3", 5000, 6000, 50.85, 4.35, "Brussels", "BE"),
	}}
	routes := []models.RouteSegment{
		{ID: "r1", StartTime: 2000, EndTime: 3000, DistanceMeters: 1500},
		{ID: "r2", StartTime: 4000, EndTime: 5000, DistanceMeters: 2500},
		{ID: "outside", StartTime: 8000, EndTime: 9000, DistanceMeters: 99999},
	}

	trip := finalizeTrip(run, routes)

	assert.Equal(t, "u1", trip.UserID)
	assert.Equal(t, []string{"v1", "v2", "v3"}, trip.VisitIDs)
	assert.Equal(t, []string{"FR", "BE"}, trip.Countries)
	assert.Equal(t, []string{"Paris", "Brussels"}, trip.Cities)
	assert.Equal(t, "Paris", trip.MainDestination)
	assert.Equal(t, 4000.0, trip.TotalDistanceMeters)

	t.Run("deterministic id", func(t *testing.T) {
		again := finalizeTrip(run, routes)
		assert.Equal(t, trip.ID, again.ID)
	})
}

func TestByFrequency(t *testing.T) {
	got := byFrequency(map[string]int{"b": 2, "a": 2, "c": 5})
	assert.Equal(t, []string{"c", "a", "b"}, got)
}
