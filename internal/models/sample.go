package models

// SampleSource identifies how a location sample was obtained
type SampleSource string

const (
	SourceSatellite  SampleSource = "SATELLITE" // GNSS fix
	SourceNetwork    SampleSource = "NETWORK"   // cell/wifi fix
	SourceVisitEvent SampleSource = "VISIT"     // synthesized platform visit event
)

// LocationSample represents one raw timestamped GPS sample.
// Immutable once persisted.
type LocationSample struct {
	ID        string  `json:"id" db:"id"`
	UserID    string  `json:"userId" db:"user_id"`
	DeviceID  string  `json:"deviceId,omitempty" db:"device_id"`
	Timestamp int64   `json:"timestamp" db:"timestamp"` // Unix timestamp in seconds
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Accuracy  float64 `json:"accuracy" db:"accuracy"`    // Horizontal accuracy in meters

	// Optional sensor fields
	Speed    *float64 `json:"speed,omitempty" db:"speed"`       // m/s
	Bearing  *float64 `json:"bearing,omitempty" db:"bearing"`   // degrees, 0-360
	Altitude *float64 `json:"altitude,omitempty" db:"altitude"` // meters

	Source SampleSource `json:"source" db:"source"`
	TripID *string      `json:"tripId,omitempty" db:"trip_id"`
}

// SamplesResponse represents a paginated response of location samples
type SamplesResponse struct {
	Data       []LocationSample `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// SampleFilter represents filter parameters for querying samples
type SampleFilter struct {
	UserID    string `form:"userId"`
	StartTime int64  `form:"startTime"` // Unix timestamp
	EndTime   int64  `form:"endTime"`   // Unix timestamp
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}
