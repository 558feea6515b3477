package spatial

import (
	"math"
)

// metersPerDegreeLat is the approximate north-south extent of one degree of latitude.
const metersPerDegreeLat = 111320.0

type gridKey struct {
	row int
	col int
}

// GridIndex is a uniform lat/lon bucket index for radius queries. Cell size
// equals the query radius, so any point within the radius of a query point
// lives in the 3x3 block of cells around it.
type GridIndex struct {
	points     []Point
	cells      map[gridKey][]int
	latCellDeg float64
	lonCellDeg float64
}

// NewGridIndex builds an index over points sized for radius-meter queries.
func NewGridIndex(points []Point, radiusMeters float64) *GridIndex {
	if radiusMeters <= 0 {
		radiusMeters = 1
	}

	// Longitude degrees shrink with latitude; size cells at the mean latitude
	// of the data set, clamped away from the poles.
	var meanLat float64
	for _, p := range points {
		meanLat += p.Lat
	}
	if len(points) > 0 {
		meanLat /= float64(len(points))
	}
	cosLat := math.Cos(meanLat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}

	g := &GridIndex{
		points:     points,
		cells:      make(map[gridKey][]int),
		latCellDeg: radiusMeters / metersPerDegreeLat,
		lonCellDeg: radiusMeters / (metersPerDegreeLat * cosLat),
	}

	for i, p := range points {
		k := g.keyFor(p)
		g.cells[k] = append(g.cells[k], i)
	}

	return g
}

func (g *GridIndex) keyFor(p Point) gridKey {
	return gridKey{
		row: int(math.Floor(p.Lat / g.latCellDeg)),
		col: int(math.Floor(p.Lon / g.lonCellDeg)),
	}
}

// Within returns the indices of all points within radiusMeters of the query
// point, verified with an exact haversine check. The query radius must not
// exceed the radius the index was built with.
func (g *GridIndex) Within(query Point, radiusMeters float64) []int {
	center := g.keyFor(query)

	var result []int
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			k := gridKey{row: center.row + dr, col: center.col + dc}
			for _, idx := range g.cells[k] {
				p := g.points[idx]
				if HaversineDistance(query.Lat, query.Lon, p.Lat, p.Lon) <= radiusMeters {
					result = append(result, idx)
				}
			}
		}
	}

	return result
}
