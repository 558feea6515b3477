package models

// PlaceVisit represents a detected stationary stay at a place.
// Never mutated after persistence except soft-delete and trip assignment.
type PlaceVisit struct {
	ID         string  `json:"id" db:"id"`
	UserID     string  `json:"userId" db:"user_id"`
	TripID     *string `json:"tripId,omitempty" db:"trip_id"` // nil until trip assignment
	StartTime  int64   `json:"startTime" db:"start_time"`     // Unix timestamp
	EndTime    int64   `json:"endTime" db:"end_time"`         // Unix timestamp, >= StartTime
	Latitude   float64 `json:"latitude" db:"latitude"`        // center
	Longitude  float64 `json:"longitude" db:"longitude"`      // center
	Radius     float64 `json:"radius" db:"radius"`            // meters, >= 0
	Confidence float64 `json:"confidence" db:"confidence"`    // 0.0 to 1.0

	// Resolved address, nil when geocoding was unavailable
	City            *string `json:"city,omitempty" db:"city"`
	Country         *string `json:"country,omitempty" db:"country"`
	CountryCode     *string `json:"countryCode,omitempty" db:"country_code"`
	PointOfInterest *string `json:"pointOfInterest,omitempty" db:"poi_name"`

	SampleIDs []string `json:"sampleIds,omitempty" db:"sample_ids"` // stored as JSON
	Deleted   bool     `json:"deleted,omitempty" db:"deleted"`
}

// Duration returns the visit duration in seconds.
func (v PlaceVisit) Duration() int64 {
	return v.EndTime - v.StartTime
}

// VisitsResponse represents a paginated response of place visits
type VisitsResponse struct {
	Data       []PlaceVisit `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
}

// VisitFilter represents filter parameters for querying place visits
type VisitFilter struct {
	UserID        string  `form:"userId"`
	TripID        string  `form:"tripId"`
	StartTime     int64   `form:"startTime"` // Unix timestamp
	EndTime       int64   `form:"endTime"`   // Unix timestamp
	City          string  `form:"city"`
	CountryCode   string  `form:"countryCode"`
	MinDuration   int64   `form:"minDuration"`   // Seconds
	MinConfidence float64 `form:"minConfidence"` // 0-1
	Page          int     `form:"page"`
	PageSize      int     `form:"pageSize"`
}
