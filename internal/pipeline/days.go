package pipeline

import (
	"sort"
	"time"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// AggregateDays merges a trip's visits and routes into per-day ordered
// timelines. One TripDay is produced for every calendar date the trip spans
// (inclusive), even when it holds only the start/end markers. An item belongs
// to the day its start time falls in; days run from local midnight to the next
// local midnight in loc.
func AggregateDays(trip models.Trip, visits []models.PlaceVisit, routes []models.RouteSegment, loc *time.Location) []models.TripDay {
	endTime := tripEndTime(trip, visits, routes)

	firstDay := localMidnight(trip.StartTime, loc)
	lastDay := localMidnight(endTime, loc)

	var days []models.TripDay
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		dayStart := day.Unix()
		dayEnd := day.AddDate(0, 0, 1).Unix()

		items := []models.TimelineItem{models.DayStart{Timestamp: dayStart}}

		var inDay []models.TimelineItem
		for _, v := range visits {
			if v.StartTime >= dayStart && v.StartTime < dayEnd {
				inDay = append(inDay, models.VisitItem{Visit: v})
			}
		}
		for _, r := range routes {
			if r.StartTime >= dayStart && r.StartTime < dayEnd {
				inDay = append(inDay, models.RouteItem{Route: r})
			}
		}
		sort.SliceStable(inDay, func(i, j int) bool {
			return inDay[i].Time() < inDay[j].Time()
		})

		items = append(items, inDay...)
		items = append(items, models.DayEnd{Timestamp: dayEnd})

		date := day.Format("2006-01-02")
		days = append(days, models.TripDay{
			ID:     models.TripDayID(trip.ID, date),
			TripID: trip.ID,
			Date:   date,
			Items:  items,
		})
	}

	return days
}

// tripEndTime resolves the aggregation horizon: the trip's end boundary, or
// for an ongoing trip the end of its latest known item.
func tripEndTime(trip models.Trip, visits []models.PlaceVisit, routes []models.RouteSegment) int64 {
	if trip.EndTime != nil {
		return *trip.EndTime
	}

	end := trip.StartTime
	for _, v := range visits {
		if v.EndTime > end {
			end = v.EndTime
		}
	}
	for _, r := range routes {
		if r.EndTime > end {
			end = r.EndTime
		}
	}
	return end
}

func localMidnight(ts int64, loc *time.Location) time.Time {
	t := time.Unix(ts, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
