package pipeline

import (
	"math"

	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/spatial"
)

// Confidence factor weights: sample count, mean accuracy, cluster tightness.
const (
	confidenceCountWeight     = 0.4
	confidenceAccuracyWeight  = 0.3
	confidenceTightnessWeight = 0.3
)

// BuildVisit turns one cluster into a PlaceVisit. The center is the
// accuracy-weighted average of member coordinates (weight 1/accuracy, so more
// precise fixes pull harder), the radius is the maximum haversine distance
// from the center to any member, and the confidence combines normalized
// sample-count, accuracy and tightness factors clamped to [0,1].
// Address fields are left empty; the caller enriches them via geocoding.
func BuildVisit(cluster Cluster) models.PlaceVisit {
	points := make([]spatial.Point, len(cluster.Samples))
	weights := make([]float64, len(cluster.Samples))
	sampleIDs := make([]string, len(cluster.Samples))

	var accuracySum float64
	for i, s := range cluster.Samples {
		points[i] = spatial.Point{Lat: s.Latitude, Lon: s.Longitude}
		w := 1.0
		if s.Accuracy > 0 {
			w = 1.0 / s.Accuracy
		}
		weights[i] = w
		accuracySum += s.Accuracy
		sampleIDs[i] = s.ID
	}

	center := spatial.WeightedCentroid(points, weights)

	var radius float64
	for _, p := range points {
		d := spatial.HaversineDistance(center.Lat, center.Lon, p.Lat, p.Lon)
		if d > radius {
			radius = d
		}
	}

	avgAccuracy := accuracySum / float64(len(cluster.Samples))
	confidence := visitConfidence(len(cluster.Samples), avgAccuracy, radius)

	userID := cluster.Samples[0].UserID

	return models.PlaceVisit{
		ID:         models.VisitID(userID, cluster.StartTime, cluster.EndTime, center.Lat, center.Lon),
		UserID:     userID,
		StartTime:  cluster.StartTime,
		EndTime:    cluster.EndTime,
		Latitude:   center.Lat,
		Longitude:  center.Lon,
		Radius:     radius,
		Confidence: confidence,
		SampleIDs:  sampleIDs,
	}
}

func visitConfidence(count int, avgAccuracy, radius float64) float64 {
	countFactor := math.Min(float64(count)/10.0, 1.0)
	accuracyFactor := math.Max(0, 1.0-avgAccuracy/100.0)
	tightnessFactor := math.Max(0, 1.0-radius/200.0)

	confidence := confidenceCountWeight*countFactor +
		confidenceAccuracyWeight*accuracyFactor +
		confidenceTightnessWeight*tightnessFactor

	return math.Max(0, math.Min(1, confidence))
}
