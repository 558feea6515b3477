package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineItemEnvelopes(t *testing.T) {
	city := "Berlin"
	items := []TimelineItem{
		DayStart{Timestamp: 1000},
		VisitItem{Visit: PlaceVisit{ID: "v1", UserID: "u1", StartTime: 1100, EndTime: 1500, City: &city}},
		RouteItem{Route: RouteSegment{ID: "r1", UserID: "u1", StartTime: 1500, EndTime: 1600, Transport: TransportWalk}},
		DayEnd{Timestamp: 2000},
	}

	data, err := MarshalTimelineItems(items)
	require.NoError(t, err)

	t.Run("type tags on the wire", func(t *testing.T) {
		var envelopes []struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(data, &envelopes))
		types := make([]string, len(envelopes))
		for i, e := range envelopes {
			types[i] = e.Type
		}
		assert.Equal(t, []string{"day_start", "visit", "route", "day_end"}, types)
	})

	t.Run("round trip preserves the variants", func(t *testing.T) {
		decoded, err := UnmarshalTimelineItems(data)
		require.NoError(t, err)
		require.Len(t, decoded, 4)

		assert.Equal(t, items[0], decoded[0])

		visit, ok := decoded[1].(VisitItem)
		require.True(t, ok)
		assert.Equal(t, "v1", visit.Visit.ID)
		require.NotNil(t, visit.Visit.City)
		assert.Equal(t, "Berlin", *visit.Visit.City)

		route, ok := decoded[2].(RouteItem)
		require.True(t, ok)
		assert.Equal(t, TransportWalk, route.Route.Transport)

		assert.Equal(t, items[3], decoded[3])
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := UnmarshalTimelineItems([]byte(`[{"type":"nap","value":{}}]`))
		assert.Error(t, err)
	})
}

func TestTripDayJSON(t *testing.T) {
	day := TripDay{
		ID:     "d1",
		TripID: "t1",
		Date:   "2026-03-02",
		Items: []TimelineItem{
			DayStart{Timestamp: 0},
			DayEnd{Timestamp: 86400},
		},
	}

	data, err := json.Marshal(day)
	require.NoError(t, err)

	var decoded TripDay
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, day, decoded)
}
