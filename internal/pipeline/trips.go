package pipeline

import (
	"sort"

	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/spatial"
)

// visitRun is a maximal run of visits collected for one trip. open marks the
// trailing run that has not hit a boundary yet (ongoing trip).
type visitRun struct {
	visits []models.PlaceVisit
	open   bool
}

// DetectTrips segments a sorted visit sequence into trips. The heuristic is
// chosen by cfg.TripHeuristic; the home-distance heuristic needs a detected
// home and degrades to the gap/return heuristic when the home is unknown.
func DetectTrips(visits []models.PlaceVisit, routes []models.RouteSegment, home *HomeLocation, cfg Config) []models.Trip {
	if len(visits) == 0 {
		return nil
	}

	var runs []visitRun
	if cfg.TripHeuristic == HeuristicHomeDistance && home != nil {
		runs = homeDistanceRuns(visits, *home, cfg)
	} else {
		runs = gapReturnRuns(visits, cfg)
	}

	trips := make([]models.Trip, 0, len(runs))
	for _, run := range runs {
		trips = append(trips, finalizeTrip(run, routes))
	}
	return trips
}

// homeDistanceRuns collects maximal runs of "away" visits: visits farther from
// home than the distance threshold. A run must span at least the minimum trip
// duration to qualify; the trailing run is left open while the user is away.
func homeDistanceRuns(visits []models.PlaceVisit, home HomeLocation, cfg Config) []visitRun {
	minDuration := int64(cfg.MinTripDuration.Seconds())

	var runs []visitRun
	var current []models.PlaceVisit

	flush := func(open bool) {
		if len(current) == 0 {
			return
		}
		span := current[len(current)-1].EndTime - current[0].StartTime
		if span >= minDuration {
			runs = append(runs, visitRun{visits: current, open: open})
		}
		current = nil
	}

	for _, v := range visits {
		away := spatial.HaversineDistance(v.Latitude, v.Longitude, home.Center.Lat, home.Center.Lon) > cfg.TripDistanceThreshold
		if away {
			current = append(current, v)
		} else {
			flush(false)
		}
	}
	flush(true)

	return runs
}

// gapReturnRuns segments visits without a known home. A boundary is detected
// when the temporal gap since the previous visit exceeds the gap threshold,
// when the current visit comes back within the return radius of the run's
// first visit, or when the current visit repeats the previous visit's city
// after the run has already spanned its maximum same-city duration.
func gapReturnRuns(visits []models.PlaceVisit, cfg Config) []visitRun {
	gapThreshold := int64(cfg.TripGapThreshold.Seconds())
	maxSpan := int64(cfg.TripMaxSameCitySpan.Seconds())

	var runs []visitRun
	current := []models.PlaceVisit{visits[0]}

	for _, v := range visits[1:] {
		prev := current[len(current)-1]
		first := current[0]

		boundary := false
		if v.StartTime-prev.EndTime > gapThreshold {
			boundary = true
		} else if spatial.HaversineDistance(v.Latitude, v.Longitude, first.Latitude, first.Longitude) <= cfg.TripReturnRadius {
			boundary = true
		} else if sameCity(v, prev) && v.StartTime-first.StartTime > maxSpan {
			boundary = true
		}

		if boundary {
			runs = append(runs, visitRun{visits: current})
			current = []models.PlaceVisit{v}
		} else {
			current = append(current, v)
		}
	}
	runs = append(runs, visitRun{visits: current, open: true})

	return runs
}

func sameCity(a, b models.PlaceVisit) bool {
	return a.City != nil && b.City != nil && *a.City == *b.City
}

// finalizeTrip builds the Trip model for a run: deterministic ID, ordered
// visit IDs, country/city frequency sets (most frequent first), the main
// destination, and the total distance of the routes inside the trip window.
func finalizeTrip(run visitRun, routes []models.RouteSegment) models.Trip {
	first := run.visits[0]
	last := run.visits[len(run.visits)-1]

	visitIDs := make([]string, len(run.visits))
	countryCounts := make(map[string]int)
	cityCounts := make(map[string]int)
	for i, v := range run.visits {
		visitIDs[i] = v.ID
		if v.CountryCode != nil && *v.CountryCode != "" {
			countryCounts[*v.CountryCode]++
		}
		if v.City != nil && *v.City != "" {
			cityCounts[*v.City]++
		}
	}

	var totalDistance float64
	for _, r := range routes {
		if r.StartTime >= first.StartTime && r.EndTime <= last.EndTime {
			totalDistance += r.DistanceMeters
		}
	}

	trip := models.Trip{
		ID:                  models.TripID(first.UserID, first.StartTime, first.ID),
		UserID:              first.UserID,
		StartTime:           first.StartTime,
		VisitIDs:            visitIDs,
		Countries:           byFrequency(countryCounts),
		Cities:              byFrequency(cityCounts),
		TotalDistanceMeters: totalDistance,
	}
	if len(trip.Cities) > 0 {
		trip.MainDestination = trip.Cities[0]
	}
	if !run.open {
		endTime := last.EndTime
		trip.EndTime = &endTime
	}
	return trip
}

// byFrequency orders keys by descending count, ties alphabetically.
func byFrequency(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
