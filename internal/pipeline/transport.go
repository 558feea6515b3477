package pipeline

import (
	"math"

	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/spatial"
)

const mpsToKmh = 3.6

// speedStats summarizes the speed fields of a sample run.
type speedStats struct {
	avgKmh float64
	maxKmh float64
	cv     float64 // coefficient of variation (stddev/mean)
	count  int
}

// ClassifyTransport infers the transport mode of a sample run from its speed
// and distance statistics. Rules are ordered; the first match wins. Samples
// without speed readings contribute only to distance; if no sample carries a
// speed, the mode is UNKNOWN.
func ClassifyTransport(samples []models.LocationSample, thresholds SpeedThresholds) models.TransportMode {
	stats := computeSpeedStats(samples)
	if stats.count == 0 {
		return models.TransportUnknown
	}

	distanceKm := cumulativeDistance(samples) / 1000.0

	switch {
	case stats.avgKmh < thresholds.WalkMaxAvgSpeed:
		return models.TransportWalk
	case stats.avgKmh < thresholds.BikeMaxAvgSpeed:
		return models.TransportBike
	case stats.maxKmh < thresholds.CarMaxSpeed && distanceKm < thresholds.CarMaxDistance:
		return models.TransportCar
	case stats.avgKmh > thresholds.TrainMinAvgSpeed && distanceKm > thresholds.TrainMinDistance:
		if stats.cv < thresholds.TrainMaxSpeedCV {
			return models.TransportTrain
		}
		return models.TransportCar
	case stats.maxKmh > thresholds.FlightMinSpeed || distanceKm > thresholds.FlightMinDistance:
		return models.TransportFlight
	default:
		return models.TransportCar
	}
}

func computeSpeedStats(samples []models.LocationSample) speedStats {
	var speeds []float64
	for _, s := range samples {
		if s.Speed != nil {
			speeds = append(speeds, *s.Speed*mpsToKmh)
		}
	}
	if len(speeds) == 0 {
		return speedStats{}
	}

	var sum, maxSpeed float64
	for _, v := range speeds {
		sum += v
		if v > maxSpeed {
			maxSpeed = v
		}
	}
	mean := sum / float64(len(speeds))

	var sumSq float64
	for _, v := range speeds {
		sumSq += (v - mean) * (v - mean)
	}
	stddev := math.Sqrt(sumSq / float64(len(speeds)))

	cv := 0.0
	if mean > 0 {
		cv = stddev / mean
	}

	return speedStats{avgKmh: mean, maxKmh: maxSpeed, cv: cv, count: len(speeds)}
}

// cumulativeDistance sums the haversine distance along a sample run in meters.
func cumulativeDistance(samples []models.LocationSample) float64 {
	points := make([]spatial.Point, len(samples))
	for i, s := range samples {
		points[i] = spatial.Point{Lat: s.Latitude, Lon: s.Longitude}
	}
	return spatial.PathLength(points)
}
