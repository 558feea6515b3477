package models

import (
	"fmt"

	"github.com/google/uuid"
)

// idNamespace seeds content-derived identifiers. Fixed so re-processing the
// same raw samples yields the same IDs, which makes at-least-once batch
// retries safe to upsert.
var idNamespace = uuid.MustParse("8c2e1f76-4b3a-5d90-a1c4-2f7e6b9d0e31")

// SampleID derives a deterministic identifier for a raw sample that arrived
// without a client-assigned ID.
func SampleID(userID, deviceID string, timestamp int64, lat, lon float64) string {
	return deriveID("sample|%s|%s|%d|%.6f|%.6f", userID, deviceID, timestamp, lat, lon)
}

// VisitID derives a deterministic identifier for a place visit.
func VisitID(userID string, startTime, endTime int64, lat, lon float64) string {
	return deriveID("visit|%s|%d|%d|%.5f|%.5f", userID, startTime, endTime, lat, lon)
}

// RouteID derives a deterministic identifier for a route segment.
func RouteID(userID string, startTime, endTime int64) string {
	return deriveID("route|%s|%d|%d", userID, startTime, endTime)
}

// TripID derives a deterministic identifier for a trip.
func TripID(userID string, startTime int64, firstVisitID string) string {
	return deriveID("trip|%s|%d|%s", userID, startTime, firstVisitID)
}

// TripDayID derives a deterministic identifier for a trip day.
func TripDayID(tripID, date string) string {
	return deriveID("tripday|%s|%s", tripID, date)
}

func deriveID(format string, args ...interface{}) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf(format, args...))).String()
}
