package models

import (
	"encoding/json"
	"fmt"
)

// TimelineItem is a closed set of per-day timeline entries: DayStart, VisitItem,
// RouteItem and DayEnd. Each variant carries only the data relevant to its case.
type TimelineItem interface {
	// Time returns the timestamp used for ordering within a day.
	Time() int64

	timelineItem()
}

// DayStart marks local midnight at the beginning of a trip day.
type DayStart struct {
	Timestamp int64 `json:"timestamp"`
}

// DayEnd marks local midnight at the end of a trip day.
type DayEnd struct {
	Timestamp int64 `json:"timestamp"`
}

// VisitItem wraps a place visit that starts within the day.
type VisitItem struct {
	Visit PlaceVisit `json:"visit"`
}

// RouteItem wraps a route segment that starts within the day.
type RouteItem struct {
	Route RouteSegment `json:"route"`
}

func (i DayStart) Time() int64  { return i.Timestamp }
func (i DayEnd) Time() int64    { return i.Timestamp }
func (i VisitItem) Time() int64 { return i.Visit.StartTime }
func (i RouteItem) Time() int64 { return i.Route.StartTime }

func (DayStart) timelineItem()  {}
func (DayEnd) timelineItem()    {}
func (VisitItem) timelineItem() {}
func (RouteItem) timelineItem() {}

// TripDay is the ordered timeline of one calendar date of a trip.
// Purely derived and recomputable; never the source of truth.
type TripDay struct {
	ID     string         `json:"id" db:"id"`
	TripID string         `json:"tripId" db:"trip_id"`
	Date   string         `json:"date" db:"date"` // YYYY-MM-DD, local to the configured timezone
	Items  []TimelineItem `json:"items" db:"items"`
}

// timelineItemEnvelope is the wire form of a TimelineItem.
type timelineItemEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

const (
	itemTypeDayStart = "day_start"
	itemTypeDayEnd   = "day_end"
	itemTypeVisit    = "visit"
	itemTypeRoute    = "route"
)

// MarshalTimelineItems encodes timeline items as type-tagged JSON.
func MarshalTimelineItems(items []TimelineItem) ([]byte, error) {
	envelopes := make([]timelineItemEnvelope, 0, len(items))
	for _, item := range items {
		var typ string
		switch item.(type) {
		case DayStart:
			typ = itemTypeDayStart
		case DayEnd:
			typ = itemTypeDayEnd
		case VisitItem:
			typ = itemTypeVisit
		case RouteItem:
			typ = itemTypeRoute
		default:
			return nil, fmt.Errorf("unknown timeline item type %T", item)
		}
		value, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal timeline item: %w", err)
		}
		envelopes = append(envelopes, timelineItemEnvelope{Type: typ, Value: value})
	}
	return json.Marshal(envelopes)
}

// UnmarshalTimelineItems decodes type-tagged JSON back into timeline items.
func UnmarshalTimelineItems(data []byte) ([]TimelineItem, error) {
	var envelopes []timelineItemEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timeline items: %w", err)
	}

	items := make([]TimelineItem, 0, len(envelopes))
	for _, env := range envelopes {
		switch env.Type {
		case itemTypeDayStart:
			var item DayStart
			if err := json.Unmarshal(env.Value, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal day start: %w", err)
			}
			items = append(items, item)
		case itemTypeDayEnd:
			var item DayEnd
			if err := json.Unmarshal(env.Value, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal day end: %w", err)
			}
			items = append(items, item)
		case itemTypeVisit:
			var item VisitItem
			if err := json.Unmarshal(env.Value, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal visit item: %w", err)
			}
			items = append(items, item)
		case itemTypeRoute:
			var item RouteItem
			if err := json.Unmarshal(env.Value, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal route item: %w", err)
			}
			items = append(items, item)
		default:
			return nil, fmt.Errorf("unknown timeline item type %q", env.Type)
		}
	}
	return items, nil
}

// MarshalJSON emits the items as type-tagged envelopes.
func (d TripDay) MarshalJSON() ([]byte, error) {
	items, err := MarshalTimelineItems(d.Items)
	if err != nil {
		return nil, err
	}
	type alias struct {
		ID     string          `json:"id"`
		TripID string          `json:"tripId"`
		Date   string          `json:"date"`
		Items  json.RawMessage `json:"items"`
	}
	return json.Marshal(alias{ID: d.ID, TripID: d.TripID, Date: d.Date, Items: items})
}

// UnmarshalJSON parses the type-tagged item envelopes.
func (d *TripDay) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID     string          `json:"id"`
		TripID string          `json:"tripId"`
		Date   string          `json:"date"`
		Items  json.RawMessage `json:"items"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	items, err := UnmarshalTimelineItems(a.Items)
	if err != nil {
		return err
	}
	d.ID = a.ID
	d.TripID = a.TripID
	d.Date = a.Date
	d.Items = items
	return nil
}
