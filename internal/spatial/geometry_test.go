package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentroid(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, Point{}, Centroid(nil))
	})

	t.Run("average of points", func(t *testing.T) {
		c := Centroid([]Point{{Lat: 0, Lon: 0}, {Lat: 2, Lon: 4}})
		assert.Equal(t, Point{Lat: 1, Lon: 2}, c)
	})
}

func TestWeightedCentroid(t *testing.T) {
	points := []Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}

	t.Run("heavier point pulls harder", func(t *testing.T) {
		c := WeightedCentroid(points, []float64{3, 1})
		assert.InDelta(t, 0.25, c.Lat, 1e-9)
		assert.InDelta(t, 0.25, c.Lon, 1e-9)
	})

	t.Run("zero total weight falls back to plain centroid", func(t *testing.T) {
		c := WeightedCentroid(points, []float64{0, 0})
		assert.Equal(t, Centroid(points), c)
	})

	t.Run("missing weights default to one", func(t *testing.T) {
		c := WeightedCentroid(points, nil)
		assert.Equal(t, Centroid(points), c)
	})
}

func TestPathLength(t *testing.T) {
	t.Run("fewer than two points", func(t *testing.T) {
		assert.Equal(t, 0.0, PathLength(nil))
		assert.Equal(t, 0.0, PathLength([]Point{{Lat: 52.52, Lon: 13.405}}))
	})

	t.Run("sums the legs", func(t *testing.T) {
		// two half-degree legs along the equator
		points := []Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.5}, {Lat: 0, Lon: 1}}
		assert.InDelta(t, 111195, PathLength(points), 100)
	})
}

func TestPerpendicularDistance(t *testing.T) {
	t.Run("point on the line", func(t *testing.T) {
		d := PerpendicularDistance(Point{Lat: 0.5, Lon: 0.5}, Point{Lat: 0, Lon: 0}, Point{Lat: 1, Lon: 1})
		assert.InDelta(t, 0, d, 1e-6)
	})

	t.Run("offset point", func(t *testing.T) {
		// 0.001 degrees off a meridian segment is roughly 111 meters
		d := PerpendicularDistance(Point{Lat: 0.5, Lon: 0.001}, Point{Lat: 0, Lon: 0}, Point{Lat: 1, Lon: 0})
		assert.InDelta(t, 111.32, d, 0.5)
	})

	t.Run("degenerate segment uses point distance", func(t *testing.T) {
		d := PerpendicularDistance(Point{Lat: 0, Lon: 0.001}, Point{Lat: 0, Lon: 0}, Point{Lat: 0, Lon: 0})
		assert.InDelta(t, HaversineDistance(0, 0.001, 0, 0), d, 1e-6)
	})
}

func TestGridIndexWithin(t *testing.T) {
	points := []Point{
		{Lat: 52.5200, Lon: 13.4050},
		{Lat: 52.5201, Lon: 13.4051}, // ~13m away
		{Lat: 52.5300, Lon: 13.4050}, // ~1.1km away
	}
	index := NewGridIndex(points, 200)

	t.Run("finds nearby points including self", func(t *testing.T) {
		result := index.Within(points[0], 200)
		assert.ElementsMatch(t, []int{0, 1}, result)
	})

	t.Run("excludes points beyond the radius", func(t *testing.T) {
		result := index.Within(points[2], 200)
		assert.ElementsMatch(t, []int{2}, result)
	})
}
