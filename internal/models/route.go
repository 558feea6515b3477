package models

// TransportMode classifies how a route segment was traveled
type TransportMode string

const (
	TransportWalk    TransportMode = "WALK"
	TransportBike    TransportMode = "BIKE"
	TransportCar     TransportMode = "CAR"
	TransportTrain   TransportMode = "TRAIN"
	TransportFlight  TransportMode = "FLIGHT"
	TransportUnknown TransportMode = "UNKNOWN"
)

// PathPoint represents a single point in a route path
type PathPoint struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Timestamp int64   `json:"timestamp"`
}

// RouteSegment represents the movement between two consecutive place visits.
// Created once per visit-pair gap.
type RouteSegment struct {
	ID        string  `json:"id" db:"id"`
	UserID    string  `json:"userId" db:"user_id"`
	TripID    *string `json:"tripId,omitempty" db:"trip_id"`
	StartTime int64   `json:"startTime" db:"start_time"` // end of previous visit
	EndTime   int64   `json:"endTime" db:"end_time"`     // start of next visit
	StartLat  float64 `json:"startLat" db:"start_lat"`
	StartLon  float64 `json:"startLon" db:"start_lon"`
	EndLat    float64 `json:"endLat" db:"end_lat"`
	EndLon    float64 `json:"endLon" db:"end_lon"`

	Transport      TransportMode `json:"transport" db:"transport"`
	DistanceMeters float64       `json:"distanceMeters" db:"distance_m"` // >= 0

	// Simplified path, >= 2 points unless degenerate. Stored as JSON.
	Path []PathPoint `json:"path" db:"path"`
}

// RoutesResponse represents a paginated response of route segments
type RoutesResponse struct {
	Data       []RouteSegment `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// RouteFilter represents filter parameters for querying route segments
type RouteFilter struct {
	UserID      string  `form:"userId"`
	TripID      string  `form:"tripId"`
	Transport   string  `form:"transport"`   // WALK, BIKE, CAR, TRAIN, FLIGHT, UNKNOWN
	StartTime   int64   `form:"startTime"`   // Unix timestamp
	EndTime     int64   `form:"endTime"`     // Unix timestamp
	MinDistance float64 `form:"minDistance"` // Meters
	Page        int     `form:"page"`
	PageSize    int     `form:"pageSize"`
}
