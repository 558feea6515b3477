package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

func TestBuildVisit(t *testing.T) {
	cluster := Cluster{
		Samples:   stationarySamples("v", 52.52, 13.405, 1000, 10, 120),
		StartTime: 1000,
		EndTime:   1000 + 9*120,
	}

	t.Run("fields derived from cluster", func(t *testing.T) {
		visit := BuildVisit(cluster)

		assert.Equal(t, "u1", visit.UserID)
		assert.Equal(t, int64(1000), visit.StartTime)
		assert.Equal(t, int64(1000+9*120), visit.EndTime)
		assert.InDelta(t, 52.52, visit.Latitude, 0.001)
		assert.InDelta(t, 13.405, visit.Longitude, 0.001)
		assert.GreaterOrEqual(t, visit.Radius, 0.0)
		assert.Len(t, visit.SampleIDs, 10)
		assert.Nil(t, visit.City)
	})

	t.Run("id is deterministic", func(t *testing.T) {
		a := BuildVisit(cluster)
		b := BuildVisit(cluster)
		assert.Equal(t, a.ID, b.ID)
	})

	t.Run("precise fixes pull the center", func(t *testing.T) {
		c := Cluster{
			Samples: []models.LocationSample{
				{ID: "p1", UserID: "u1", Timestamp: 0, Latitude: 52.5200, Longitude: 13.4050, Accuracy: 5},
				{ID: "p2", UserID: "u1", Timestamp: 60, Latitude: 52.5210, Longitude: 13.4050, Accuracy: 100},
			},
			StartTime: 0,
			EndTime:   60,
		}
		visit := BuildVisit(c)
		// center sits much closer to the accurate fix
		assert.Less(t, visit.Latitude-52.5200, 52.5210-visit.Latitude)
	})
}

func TestVisitConfidence(t *testing.T) {
	t.Run("always within bounds", func(t *testing.T) {
		cases := []struct {
			count    int
			accuracy float64
			radius   float64
		}{
			{1, 0, 0},
			{100, 1000, 10000},
			{10, 5, 20},
			{3, 50, 150},
		}
		for _, tc := range cases {
			c := visitConfidence(tc.count, tc.accuracy, tc.radius)
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
		}
	})

	t.Run("best case scores one", func(t *testing.T) {
		assert.InDelta(t, 1.0, visitConfidence(10, 0, 0), 1e-9)
	})

	t.Run("more samples raise confidence", func(t *testing.T) {
		assert.Greater(t, visitConfidence(8, 20, 50), visitConfidence(3, 20, 50))
	})

	t.Run("worse accuracy lowers confidence", func(t *testing.T) {
		assert.Less(t, visitConfidence(10, 90, 50), visitConfidence(10, 10, 50))
	})

	t.Run("looser cluster lowers confidence", func(t *testing.T) {
		assert.Less(t, visitConfidence(10, 10, 190), visitConfidence(10, 10, 20))
	})
}
