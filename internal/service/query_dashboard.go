package service

import (
	"fmt"
	"time"

	"github.com/msambhus/team-asha-randonneuring/internal/store"
)

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	// Club readiness
	ClubReadiness int // average cached total across scored riders
	RidersScored  int
	RidersTotal   int

	// Leaderboard
	TopStandings []RiderStanding

	// Recent club activity
	RecentActivities []store.Activity

	// For the distance trend chart
	DailyDistanceKm []float64 // one entry per day, oldest first
	TrendStart      time.Time
}

// GetDashboardData fetches all data needed for the dashboard
func (q *QueryService) GetDashboardData() (*DashboardData, error) {
	data := &DashboardData{}

	standings, err := q.GetStandings()
	if err != nil {
		return nil, err
	}

	data.RidersTotal = len(standings)
	total := 0
	for _, s := range standings {
		if s.Score == nil {
			continue
		}
		total += s.Score.Total
		data.RidersScored++
	}
	if data.RidersScored > 0 {
		data.ClubReadiness = total / data.RidersScored
	}

	if len(standings) > dashboardTopRiders {
		standings = standings[:dashboardTopRiders]
	}
	data.TopStandings = standings

	data.RecentActivities, err = q.store.ListRecentActivities(maxRecentActivities)
	if err != nil {
		return nil, fmt.Errorf("loading recent activities: %w", err)
	}

	data.DailyDistanceKm, data.TrendStart, err = q.buildDistanceTrend(time.Now())
	if err != nil {
		return nil, err
	}

	return data, nil
}

// buildDistanceTrend sums club-wide ride distance per local day over the
// trend window. Days with no rides stay at zero so the chart keeps its
// time axis honest.
func (q *QueryService) buildDistanceTrend(now time.Time) ([]float64, time.Time, error) {
	start := now.AddDate(0, 0, -(dashboardTrendDays - 1))
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	riders, err := q.store.ListRiders()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("listing riders: %w", err)
	}

	series := make([]float64, dashboardTrendDays)
	for _, r := range riders {
		activities, err := q.store.GetRiderActivitiesSince(r.ID, startDay)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("loading activities for %s: %w", r.Name, err)
		}
		for _, a := range activities {
			if a.Type != "Ride" && a.Type != "VirtualRide" && a.Type != "EBikeRide" {
				continue
			}
			day := a.StartDateLocal
			if day.IsZero() {
				day = a.StartDate
			}
			idx := int(day.Sub(startDay).Hours() / 24)
			if idx < 0 || idx >= dashboardTrendDays {
				continue
			}
			series[idx] += a.Distance / 1000
		}
	}

	return series, startDay, nil
}
