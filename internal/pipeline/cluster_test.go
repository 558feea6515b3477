package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// stationarySamples fabricates n samples jittering around a center, one every
// interval seconds.
func stationarySamples(idPrefix string, lat, lon float64, start int64, n int, intervalSec int64) []models.LocationSample {
	samples := make([]models.LocationSample, n)
	for i := 0; i < n; i++ {
		// ~5m of jitter
		jitter := float64(i%3) * 0.00005
		samples[i] = models.LocationSample{
			ID:        fmt.Sprintf("%s-%d", idPrefix, i),
			UserID:    "u1",
			Timestamp: start + int64(i)*intervalSec,
			Latitude:  lat + jitter,
			Longitude: lon + jitter,
			Accuracy:  10,
			Source:    models.SourceSatellite,
		}
	}
	return samples
}

func TestClusterSamples(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("stationary run forms one cluster", func(t *testing.T) {
		samples := stationarySamples("a", 52.52, 13.405, 1000, 10, 120)

		clusters := ClusterSamples(samples, cfg)
		require.Len(t, clusters, 1)
		assert.Len(t, clusters[0].Samples, 10)
		assert.Equal(t, int64(1000), clusters[0].StartTime)
		assert.Equal(t, int64(1000+9*120), clusters[0].EndTime)
		assert.InDelta(t, 52.52, clusters[0].Centroid.Lat, 0.001)
	})

	t.Run("isolated samples are noise", func(t *testing.T) {
		samples := []models.LocationSample{
			{ID: "n1", UserID: "u1", Timestamp: 1000, Latitude: 52.52, Longitude: 13.405, Accuracy: 10},
			{ID: "n2", UserID: "u1", Timestamp: 2000, Latitude: 53.55, Longitude: 10.00, Accuracy: 10},
		}
		assert.Empty(t, ClusterSamples(samples, cfg))
	})

	t.Run("short stay is dropped", func(t *testing.T) {
		// 10 samples over 9 minutes, below the 10 minute minimum stay
		samples := stationarySamples("s", 52.52, 13.405, 1000, 10, 60)
		assert.Empty(t, ClusterSamples(samples, cfg))
	})

	t.Run("samples beyond the time window do not chain", func(t *testing.T) {
		// Same place twice, 3 hours apart: two separate stays
		morning := stationarySamples("m", 52.52, 13.405, 1000, 10, 120)
		evening := stationarySamples("e", 52.52, 13.405, 1000+3*3600, 10, 120)
		samples := append(morning, evening...)

		clusters := ClusterSamples(samples, cfg)
		assert.Len(t, clusters, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ClusterSamples(nil, cfg))
	})
}
