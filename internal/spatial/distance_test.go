package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistance(52.52, 13.405, 52.52, 13.405))
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := HaversineDistance(52.52, 13.405, 48.8566, 2.3522)
		d2 := HaversineDistance(48.8566, 2.3522, 52.52, 13.405)
		assert.InDelta(t, d1, d2, 1e-6)
	})

	t.Run("one degree of longitude at the equator", func(t *testing.T) {
		d := HaversineDistance(0, 0, 0, 1)
		// ~111.19 km for a mean earth radius of 6371 km
		assert.InDelta(t, 111195, d, 100)
	})

	t.Run("berlin to paris", func(t *testing.T) {
		d := HaversineDistance(52.52, 13.405, 48.8566, 2.3522)
		assert.InDelta(t, 878_000, d, 5_000)
	})
}
