package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// movingRun fabricates a run along the equator covering totalKm, one sample
// per speed value. Speeds are km/h.
func movingRun(speedsKmh []float64, totalKm float64) []models.LocationSample {
	n := len(speedsKmh)
	samples := make([]models.LocationSample, n)
	degPerGap := 0.0
	if n > 1 {
		degPerGap = (totalKm / 111.195) / float64(n-1)
	}
	for i, kmh := range speedsKmh {
		mps := kmh / 3.6
		samples[i] = models.LocationSample{
			ID:        fmt.Sprintf("t-%d", i),
			UserID:    "u1",
			Timestamp: int64(i * 60),
			Longitude: degPerGap * float64(i),
			Accuracy:  10,
			Speed:     &mps,
		}
	}
	return samples
}

func TestClassifyTransport(t *testing.T) {
	thresholds := DefaultConfig().Transport

	tests := []struct {
		name    string
		speeds  []float64 // km/h
		totalKm float64
		want    models.TransportMode
	}{
		{"slow pace is walking", []float64{4, 5, 6, 5}, 2, models.TransportWalk},
		{"moderate pace is cycling", []float64{14, 16, 18, 15}, 8, models.TransportBike},
		{"road speeds are driving", []float64{40, 60, 90, 70}, 60, models.TransportCar},
		{"fast and steady over distance is a train", []float64{150, 160, 155, 160}, 120, models.TransportTrain},
		{"fast but erratic falls back to car", []float64{20, 160, 30, 150}, 120, models.TransportCar},
		{"speed spike over long distance is a flight", []float64{5, 5, 5, 5, 5, 5, 5, 250}, 600, models.TransportFlight},
		{"no readings", nil, 0, models.TransportUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTransport(movingRun(tt.speeds, tt.totalKm), thresholds))
		})
	}

	t.Run("samples without speed give unknown", func(t *testing.T) {
		samples := []models.LocationSample{
			{ID: "x1", Timestamp: 0, Latitude: 0, Longitude: 0},
			{ID: "x2", Timestamp: 60, Latitude: 0, Longitude: 1},
		}
		assert.Equal(t, models.TransportUnknown, ClassifyTransport(samples, thresholds))
	})
}

func TestComputeSpeedStats(t *testing.T) {
	t.Run("constant speed has zero variation", func(t *testing.T) {
		stats := computeSpeedStats(movingRun([]float64{100, 100, 100}, 10))
		assert.InDelta(t, 100, stats.avgKmh, 0.01)
		assert.InDelta(t, 100, stats.maxKmh, 0.01)
		assert.InDelta(t, 0, stats.cv, 1e-9)
		assert.Equal(t, 3, stats.count)
	})

	t.Run("mixed speeds", func(t *testing.T) {
		stats := computeSpeedStats(movingRun([]float64{50, 150}, 10))
		assert.InDelta(t, 100, stats.avgKmh, 0.01)
		assert.InDelta(t, 150, stats.maxKmh, 0.01)
		assert.InDelta(t, 0.5, stats.cv, 0.01)
	})
}
