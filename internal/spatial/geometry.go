package spatial

import (
	"math"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// WeightedCentroid calculates the weighted centroid of a set of points.
// Missing weights default to 1; zero total weight falls back to the plain centroid.
func WeightedCentroid(points []Point, weights []float64) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon, sumWeights float64
	for i, p := range points {
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		sumLat += p.Lat * w
		sumLon += p.Lon * w
		sumWeights += w
	}

	if sumWeights == 0 {
		return Centroid(points)
	}

	return Point{
		Lat: sumLat / sumWeights,
		Lon: sumLon / sumWeights,
	}
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		dist := HaversineDistance(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
		totalDist += dist
	}

	return totalDist
}

// PerpendicularDistance calculates the perpendicular distance from a point to
// a line segment, treating latitude/longitude degrees as a Cartesian plane and
// converting the result to approximate meters. Good enough for the short
// segments the path simplifier works on; inaccurate at high latitudes.
func PerpendicularDistance(point, lineStart, lineEnd Point) float64 {
	x0, y0 := point.Lat, point.Lon
	x1, y1 := lineStart.Lat, lineStart.Lon
	x2, y2 := lineEnd.Lat, lineEnd.Lon

	num := math.Abs((y2-y1)*x0 - (x2-x1)*y0 + x2*y1 - y2*x1)
	den := math.Sqrt((y2-y1)*(y2-y1) + (x2-x1)*(x2-x1))

	if den == 0 {
		return HaversineDistance(point.Lat, point.Lon, lineStart.Lat, lineStart.Lon)
	}

	// Convert degrees to meters (approximate)
	metersPerDegree := 111320.0
	return (num / den) * metersPerDegree
}
