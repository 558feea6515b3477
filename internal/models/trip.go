package models

// Trip represents a higher-level journey: a maximal run of place visits
// detected by the trip boundary heuristics. Mutable only by appending visits
// while it is ongoing (EndTime == nil).
type Trip struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"userId" db:"user_id"`
	StartTime int64  `json:"startTime" db:"start_time"`       // Unix timestamp
	EndTime   *int64 `json:"endTime,omitempty" db:"end_time"` // nil => ongoing

	VisitIDs  []string `json:"visitIds" db:"visit_ids"`  // ordered, stored as JSON
	Countries []string `json:"countries" db:"countries"` // derived set, stored as JSON
	Cities    []string `json:"cities" db:"cities"`       // derived set, stored as JSON

	MainDestination     string  `json:"mainDestination,omitempty" db:"main_destination"`
	TotalDistanceMeters float64 `json:"totalDistanceMeters" db:"total_distance_m"`
}

// Ongoing reports whether the trip has no end boundary yet.
func (t Trip) Ongoing() bool {
	return t.EndTime == nil
}

// TripsResponse represents a paginated response of trips
type TripsResponse struct {
	Data       []Trip `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// TripFilter represents filter parameters for querying trips
type TripFilter struct {
	UserID      string  `form:"userId"`
	StartTime   int64   `form:"startTime"` // Unix timestamp
	EndTime     int64   `form:"endTime"`   // Unix timestamp
	Country     string  `form:"country"`
	Destination string  `form:"destination"`
	MinDistance float64 `form:"minDistance"` // Meters
	Page        int     `form:"page"`
	PageSize    int     `form:"pageSize"`
}
