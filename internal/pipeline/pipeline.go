package pipeline

import (
	"context"
	"log"
	"sort"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// Geocoder resolves a coordinate to an address. Implementations may fail
// transiently; the pipeline treats any failure as "address unknown".
type Geocoder interface {
	Lookup(ctx context.Context, lat, lon float64) (*models.GeocodedLocation, error)
}

// Result is the semantic travel record derived from one batch of samples.
type Result struct {
	Visits   []models.PlaceVisit
	Routes   []models.RouteSegment
	Trips    []models.Trip
	TripDays []models.TripDay
	Home     *HomeLocation
}

// Process converts raw samples for one user into visits, routes, trips and
// per-day timelines. Every stage is pure and synchronous except the geocoding
// lookups. Empty or insufficient input yields an empty result, not an error;
// the returned error is only ever a context cancellation.
func Process(ctx context.Context, samples []models.LocationSample, cfg Config, geocoder Geocoder) (*Result, error) {
	samples = normalizeSamples(samples)
	if len(samples) == 0 {
		return &Result{}, nil
	}

	clusters := ClusterSamples(samples, cfg)
	log.Printf("[Pipeline] Clustered %d samples into %d candidate stays", len(samples), len(clusters))

	visits := make([]models.PlaceVisit, 0, len(clusters))
	for _, cluster := range clusters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		visit := BuildVisit(cluster)
		enrichVisit(ctx, &visit, geocoder)
		visits = append(visits, visit)
	}

	// Border-point adoption can emit clusters out of order; the later stages
	// all assume visits sorted by start time.
	sort.SliceStable(visits, func(i, j int) bool {
		if visits[i].StartTime != visits[j].StartTime {
			return visits[i].StartTime < visits[j].StartTime
		}
		return visits[i].EndTime < visits[j].EndTime
	})

	routes := BuildRoutes(visits, samples, cfg)

	var home *HomeLocation
	if h, ok := DetectHome(visits, cfg); ok {
		home = &h
		log.Printf("[Pipeline] Detected home at (%.5f, %.5f) with %d nights", h.Center.Lat, h.Center.Lon, h.Nights)
	} else {
		log.Printf("[Pipeline] Home unknown, trip detection falls back to gap/return heuristic")
	}

	trips := DetectTrips(visits, routes, home, cfg)
	assignTrips(trips, visits, routes)

	var tripDays []models.TripDay
	for _, trip := range trips {
		tripVisits, tripRoutes := tripMembers(trip, visits, routes)
		tripDays = append(tripDays, AggregateDays(trip, tripVisits, tripRoutes, cfg.Timezone)...)
	}

	log.Printf("[Pipeline] Built %d visits, %d routes, %d trips, %d trip days",
		len(visits), len(routes), len(trips), len(tripDays))

	return &Result{
		Visits:   visits,
		Routes:   routes,
		Trips:    trips,
		TripDays: tripDays,
		Home:     home,
	}, nil
}

// normalizeSamples deduplicates by sample ID and re-sorts chronologically.
// Malformed input (duplicate ids, clock skew) must not fail the batch.
func normalizeSamples(samples []models.LocationSample) []models.LocationSample {
	seen := make(map[string]struct{}, len(samples))
	result := make([]models.LocationSample, 0, len(samples))
	for _, s := range samples {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		result = append(result, s)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})
	return result
}

// enrichVisit fills the visit's address fields from the geocoder. Failures are
// logged and leave the fields nil; the visit is kept either way.
func enrichVisit(ctx context.Context, visit *models.PlaceVisit, geocoder Geocoder) {
	if geocoder == nil {
		return
	}

	loc, err := geocoder.Lookup(ctx, visit.Latitude, visit.Longitude)
	if err != nil {
		log.Printf("[Pipeline] Geocoding failed for visit %s: %v", visit.ID, err)
		return
	}
	if loc == nil {
		return
	}

	if loc.City != "" {
		visit.City = &loc.City
	}
	if loc.Country != "" {
		visit.Country = &loc.Country
	}
	if loc.CountryCode != "" {
		visit.CountryCode = &loc.CountryCode
	}
	if loc.PointOfInterest != "" {
		visit.PointOfInterest = &loc.PointOfInterest
	}
}

// assignTrips stamps the owning trip ID onto visits and onto the routes whose
// window falls inside the trip.
func assignTrips(trips []models.Trip, visits []models.PlaceVisit, routes []models.RouteSegment) {
	visitTrip := make(map[string]string)
	for _, t := range trips {
		for _, id := range t.VisitIDs {
			visitTrip[id] = t.ID
		}
	}

	for i := range visits {
		if tripID, ok := visitTrip[visits[i].ID]; ok {
			id := tripID
			visits[i].TripID = &id
		}
	}

	for _, t := range trips {
		start, end := tripWindow(t, visits)
		for i := range routes {
			if routes[i].StartTime >= start && routes[i].EndTime <= end {
				id := t.ID
				routes[i].TripID = &id
			}
		}
	}
}

func tripWindow(trip models.Trip, visits []models.PlaceVisit) (int64, int64) {
	start := trip.StartTime
	end := start
	if trip.EndTime != nil {
		end = *trip.EndTime
		return start, end
	}

	ids := make(map[string]struct{}, len(trip.VisitIDs))
	for _, id := range trip.VisitIDs {
		ids[id] = struct{}{}
	}
	for _, v := range visits {
		if _, ok := ids[v.ID]; ok && v.EndTime > end {
			end = v.EndTime
		}
	}
	return start, end
}

// tripMembers selects the visits and routes that belong to a trip.
func tripMembers(trip models.Trip, visits []models.PlaceVisit, routes []models.RouteSegment) ([]models.PlaceVisit, []models.RouteSegment) {
	ids := make(map[string]struct{}, len(trip.VisitIDs))
	for _, id := range trip.VisitIDs {
		ids[id] = struct{}{}
	}

	var tripVisits []models.PlaceVisit
	for _, v := range visits {
		if _, ok := ids[v.ID]; ok {
			tripVisits = append(tripVisits, v)
		}
	}

	var tripRoutes []models.RouteSegment
	for _, r := range routes {
		if r.TripID != nil && *r.TripID == trip.ID {
			tripRoutes = append(tripRoutes, r)
		}
	}

	return tripVisits, tripRoutes
}
