package pipeline

import (
	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/spatial"
)

// HomeLocation is the detected home of a user.
type HomeLocation struct {
	Center     spatial.Point
	Nights     int
	DwellHours float64
}

type visitGroup struct {
	visits []models.PlaceVisit
	points []spatial.Point
	center spatial.Point
}

// DetectHome clusters a user's visits by simple pairwise proximity grouping
// and scores each group by nights spent there. A visit counts as a night when
// its duration reaches NightMinDuration. The group with the most qualifying
// nights wins, ties broken by total dwell hours; if no group reaches
// MinNightsForHome the home is unknown (ok == false), which downstream trip
// detection must tolerate.
func DetectHome(visits []models.PlaceVisit, cfg Config) (HomeLocation, bool) {
	if len(visits) == 0 {
		return HomeLocation{}, false
	}

	var groups []*visitGroup
	for _, v := range visits {
		placed := false
		for _, g := range groups {
			if spatial.HaversineDistance(v.Latitude, v.Longitude, g.center.Lat, g.center.Lon) <= cfg.HomeRadius {
				g.visits = append(g.visits, v)
				g.points = append(g.points, spatial.Point{Lat: v.Latitude, Lon: v.Longitude})
				g.center = spatial.Centroid(g.points)
				placed = true
				break
			}
		}
		if !placed {
			p := spatial.Point{Lat: v.Latitude, Lon: v.Longitude}
			groups = append(groups, &visitGroup{
				visits: []models.PlaceVisit{v},
				points: []spatial.Point{p},
				center: p,
			})
		}
	}

	nightSeconds := int64(cfg.NightMinDuration.Seconds())

	var best HomeLocation
	found := false
	for _, g := range groups {
		nights := 0
		var dwellSeconds int64
		for _, v := range g.visits {
			if v.Duration() >= nightSeconds {
				nights++
			}
			dwellSeconds += v.Duration()
		}
		if nights < cfg.MinNightsForHome {
			continue
		}

		candidate := HomeLocation{
			Center:     g.center,
			Nights:     nights,
			DwellHours: float64(dwellSeconds) / 3600.0,
		}
		if !found || candidate.Nights > best.Nights ||
			(candidate.Nights == best.Nights && candidate.DwellHours > best.DwellHours) {
			best = candidate
			found = true
		}
	}

	return best, found
}
