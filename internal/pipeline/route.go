package pipeline

import (
	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/spatial"
)

// BuildRoutes emits one RouteSegment per consecutive visit pair. The gap is
// [previous visit end, next visit start]; the samples inside it are classified
// and their path simplified. Fewer than two visits yields no routes.
// Visits must be sorted by start time and samples by timestamp.
func BuildRoutes(visits []models.PlaceVisit, samples []models.LocationSample, cfg Config) []models.RouteSegment {
	if len(visits) < 2 {
		return nil
	}

	routes := make([]models.RouteSegment, 0, len(visits)-1)
	for i := 1; i < len(visits); i++ {
		prev := visits[i-1]
		next := visits[i]
		gap := samplesInWindow(samples, prev.EndTime, next.StartTime)
		routes = append(routes, buildRoute(prev, next, gap, cfg))
	}

	return routes
}

func buildRoute(prev, next models.PlaceVisit, gap []models.LocationSample, cfg Config) models.RouteSegment {
	// A cluster that adopted an early border point can fully contain its
	// neighbor, leaving no travel window between the two visits. Clamp the
	// window rather than emitting an inverted one.
	start := prev.EndTime
	if start > next.StartTime {
		start = next.StartTime
	}

	route := models.RouteSegment{
		ID:        models.RouteID(prev.UserID, start, next.StartTime),
		UserID:    prev.UserID,
		StartTime: start,
		EndTime:   next.StartTime,
		StartLat:  prev.Latitude,
		StartLon:  prev.Longitude,
		EndLat:    next.Latitude,
		EndLon:    next.Longitude,
	}

	if len(gap) == 0 {
		// Degenerate gap: no samples recorded between the visits. Connect the
		// visit centers directly; the mode cannot be inferred.
		route.Transport = models.TransportUnknown
		route.DistanceMeters = spatial.HaversineDistance(prev.Latitude, prev.Longitude, next.Latitude, next.Longitude)
		route.Path = []models.PathPoint{
			{Lat: prev.Latitude, Lon: prev.Longitude, Timestamp: start},
			{Lat: next.Latitude, Lon: next.Longitude, Timestamp: next.StartTime},
		}
		return route
	}

	route.Transport = ClassifyTransport(gap, cfg.Transport)
	route.DistanceMeters = cumulativeDistance(gap)

	path := make([]models.PathPoint, 0, len(gap)+2)
	path = append(path, models.PathPoint{Lat: prev.Latitude, Lon: prev.Longitude, Timestamp: prev.EndTime})
	for _, s := range gap {
		path = append(path, models.PathPoint{Lat: s.Latitude, Lon: s.Longitude, Timestamp: s.Timestamp})
	}
	path = append(path, models.PathPoint{Lat: next.Latitude, Lon: next.Longitude, Timestamp: next.StartTime})
	route.Path = SimplifyPath(path, cfg.PathSimplifyEpsilon)

	return route
}

// samplesInWindow returns the samples with startTime < timestamp < endTime.
// Samples must be sorted by timestamp.
func samplesInWindow(samples []models.LocationSample, startTime, endTime int64) []models.LocationSample {
	var result []models.LocationSample
	for _, s := range samples {
		if s.Timestamp <= startTime {
			continue
		}
		if s.Timestamp >= endTime {
			break
		}
		result = append(result, s)
	}
	return result
}
