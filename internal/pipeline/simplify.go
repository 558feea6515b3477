package pipeline

import (
	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/spatial"
)

// SimplifyPath reduces a path to a minimal shape-preserving polyline using the
// Ramer-Douglas-Peucker algorithm. Points farther than epsilon meters from the
// line between the endpoints survive; everything else collapses. The first and
// last point always survive, and re-running with the same epsilon is a no-op.
// Perpendicular distances use the planar degree approximation from the spatial
// package.
func SimplifyPath(points []models.PathPoint, epsilonMeters float64) []models.PathPoint {
	if len(points) <= 2 {
		return points
	}

	first := spatial.Point{Lat: points[0].Lat, Lon: points[0].Lon}
	last := spatial.Point{Lat: points[len(points)-1].Lat, Lon: points[len(points)-1].Lon}

	maxDist := 0.0
	maxIndex := 0
	for i := 1; i < len(points)-1; i++ {
		p := spatial.Point{Lat: points[i].Lat, Lon: points[i].Lon}
		dist := spatial.PerpendicularDistance(p, first, last)
		if dist > maxDist {
			maxDist = dist
			maxIndex = i
		}
	}

	if maxDist > epsilonMeters {
		left := SimplifyPath(points[:maxIndex+1], epsilonMeters)
		right := SimplifyPath(points[maxIndex:], epsilonMeters)

		// Concatenate, dropping the duplicated split point.
		result := make([]models.PathPoint, 0, len(left)+len(right)-1)
		result = append(result, left...)
		result = append(result, right[1:]...)
		return result
	}

	return []models.PathPoint{points[0], points[len(points)-1]}
}
