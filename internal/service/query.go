package service

import (
	"fmt"
	"sort"

	"github.com/msambhus/team-asha-randonneuring/internal/analysis"
	"github.com/msambhus/team-asha-randonneuring/internal/store"
)

const feetPerMeter = 3.28084

// QueryService provides read-only queries for the TUI
type QueryService struct {
	store   *store.DB
	scoring analysis.ScoringConfig
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB) *QueryService {
	return &QueryService{store: db, scoring: analysis.DefaultScoring()}
}

// RiderStanding is one row of the club leaderboard: the rider, their cached
// score if they have ever been synced, and their Eddington badge.
type RiderStanding struct {
	Rider     store.Rider
	Score     *store.RiderScore // nil when never scored
	Badge     analysis.EddingtonBadge
	HasBadge  bool
	Connected bool
}

// GetStandings returns every club rider ordered by readiness, scored riders
// first. Badges come from the miles Eddington number.
func (q *QueryService) GetStandings() ([]RiderStanding, error) {
	riders, err := q.store.ListRiders()
	if err != nil {
		return nil, fmt.Errorf("listing riders: %w", err)
	}

	scores, err := q.store.ListRiderScores()
	if err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	byRider := make(map[int64]*store.RiderScore, len(scores))
	for i := range scores {
		byRider[scores[i].RiderID] = &scores[i]
	}

	connectedIDs, err := q.store.ListConnectedRiderIDs()
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	connected := make(map[int64]bool, len(connectedIDs))
	for _, id := range connectedIDs {
		connected[id] = true
	}

	standings := make([]RiderStanding, 0, len(riders))
	for _, r := range riders {
		s := RiderStanding{Rider: r, Connected: connected[r.ID]}
		if score, ok := byRider[r.ID]; ok {
			s.Score = score
			s.Badge, s.HasBadge = analysis.BadgeFor(score.EddingtonMiles)
		}
		standings = append(standings, s)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		si, sj := standings[i].Score, standings[j].Score
		if si == nil || sj == nil {
			return sj == nil && si != nil
		}
		if si.Total != sj.Total {
			return si.Total > sj.Total
		}
		return si.EddingtonMiles > sj.EddingtonMiles
	})

	return standings, nil
}

// GradedRide is one finished club ride with its computed grade.
type GradedRide struct {
	Participation store.Participation
	Grade         analysis.RideGrade
}

// RiderDetail is everything the per-rider screen shows.
type RiderDetail struct {
	Rider            store.Rider
	Score            *store.RiderScore // nil when never scored
	MilesProgress    analysis.EddingtonProgress
	KmProgress       analysis.EddingtonProgress
	Badge            analysis.EddingtonBadge
	HasBadge         bool
	GradedRides      []GradedRide
	RecentActivities []store.Activity
	Connected        bool
}

// GetRiderDetail assembles the detail view for one rider. Grades are
// computed fresh from finished participations; each ride's overload
// baseline is the rides finished before it.
func (q *QueryService) GetRiderDetail(riderID int64) (*RiderDetail, error) {
	rider, err := q.store.GetRider(riderID)
	if err != nil {
		return nil, err
	}

	detail := &RiderDetail{Rider: *rider}

	if score, err := q.store.GetRiderScore(riderID); err == nil {
		detail.Score = score
		detail.Badge, detail.HasBadge = analysis.BadgeFor(score.EddingtonMiles)
	}

	if _, err := q.store.GetConnection(riderID); err == nil {
		detail.Connected = true
	}

	activities, err := q.store.GetRiderActivities(riderID)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}

	milesCurrent := analysis.EddingtonNumber(activities, analysis.Miles)
	kmCurrent := analysis.EddingtonNumber(activities, analysis.Kilometers)
	detail.MilesProgress = analysis.ProgressToNext(activities, milesCurrent, analysis.Miles)
	detail.KmProgress = analysis.ProgressToNext(activities, kmCurrent, analysis.Kilometers)

	if len(activities) > maxDetailActivities {
		activities = activities[:maxDetailActivities]
	}
	detail.RecentActivities = activities

	detail.GradedRides, err = q.gradeFinishedRides(riderID)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// gradeFinishedRides grades each finished ride against the rides the rider
// finished before it, newest first.
func (q *QueryService) gradeFinishedRides(riderID int64) ([]GradedRide, error) {
	finished, err := q.store.GetFinishedRides(riderID)
	if err != nil {
		return nil, fmt.Errorf("loading finished rides: %w", err)
	}

	efforts := make([]analysis.RideEffort, len(finished))
	for i, p := range finished {
		efforts[i] = participationEffort(p)
	}

	graded := make([]GradedRide, 0, len(finished))
	for i, p := range finished {
		// finished is newest first, so everything after index i is prior
		grade, err := analysis.GradeRide(efforts[i], efforts[i+1:], q.scoring)
		if err != nil {
			return nil, fmt.Errorf("grading %s: %w", p.RideName, err)
		}
		graded = append(graded, GradedRide{Participation: p, Grade: grade})
	}

	return graded, nil
}

// ActivityWithRider pairs an activity with its rider's name for the
// club-wide activity feed.
type ActivityWithRider struct {
	Activity  store.Activity
	RiderName string
}

// GetActivitiesPage returns a page of club activities, most recent first.
func (q *QueryService) GetActivitiesPage(limit, offset int) ([]ActivityWithRider, error) {
	activities, err := q.store.ListActivities(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	riders, err := q.store.ListRiders()
	if err != nil {
		return nil, fmt.Errorf("listing riders: %w", err)
	}
	names := make(map[int64]string, len(riders))
	for _, r := range riders {
		names[r.ID] = r.Name
	}

	page := make([]ActivityWithRider, len(activities))
	for i, a := range activities {
		page[i] = ActivityWithRider{Activity: a, RiderName: names[a.RiderID]}
	}
	return page, nil
}

// GetTotalActivityCount returns how many activities the club has stored.
func (q *QueryService) GetTotalActivityCount() (int, error) {
	return q.store.CountActivities()
}

// participationEffort converts a stored participation into a gradeable
// effort. Brevet records carry no sensor data, so only distance, elevation,
// and date survive the conversion.
func participationEffort(p store.Participation) analysis.RideEffort {
	return analysis.RideEffort{
		DistanceKm: p.DistanceKm,
		ElevationM: p.ElevationFt / feetPerMeter,
		Date:       p.Date,
	}
}
