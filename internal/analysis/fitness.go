package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/msambhus/team-asha-randonneuring/internal/store"
)

// FitnessScore is a rider's 0-100 readiness composite. Total always equals
// the sum of the four sub-scores, each clamped to its own cap.
type FitnessScore struct {
	Total     int
	Frequency int
	Volume    int
	Intensity int
	Recency   int
}

// cyclingTypes are the activity types that count toward readiness for a
// randonneuring club.
var cyclingTypes = map[string]bool{
	"Ride":        true,
	"VirtualRide": true,
	"EBikeRide":   true,
}

// CalculateFitness computes a readiness score from a rider's recent
// activities (the caller supplies the lookback window, typically the last
// cfg.WindowDays days). An empty or all-non-ride list yields the floor
// score, never an error; malformed numeric fields are rejected.
func CalculateFitness(activities []store.Activity, now time.Time, cfg ScoringConfig) (FitnessScore, error) {
	if err := validateActivities(activities); err != nil {
		return FitnessScore{}, err
	}

	rides := make([]store.Activity, 0, len(activities))
	for _, a := range activities {
		if cyclingTypes[a.Type] {
			rides = append(rides, a)
		}
	}
	if len(rides) == 0 {
		return FitnessScore{}, nil
	}

	frequency := frequencyScore(rides, cfg)
	volume := volumeScore(rides, cfg)
	intensity := intensityScore(rides, cfg)
	recency := recencyScore(rides, now, cfg)

	total := clamp(frequency+volume+intensity+recency, 0, 100)

	return FitnessScore{
		Total:     total,
		Frequency: frequency,
		Volume:    volume,
		Intensity: intensity,
		Recency:   recency,
	}, nil
}

// frequencyScore scales ride count toward the cap as the per-week average
// approaches the target, saturating at or above it.
func frequencyScore(rides []store.Activity, cfg ScoringConfig) int {
	weeks := map[int]int{}
	for _, r := range rides {
		year, week := localDate(r).ISOWeek()
		weeks[year*100+week]++
	}
	if len(weeks) == 0 {
		return 0
	}

	total := 0
	for _, n := range weeks {
		total += n
	}
	perWeek := float64(total) / float64(len(weeks))

	return clamp(int(math.Round(perWeek/cfg.FrequencyTarget*MaxFrequency)), 0, MaxFrequency)
}

// volumeScore combines total distance and total climbing over the window,
// each scaled linearly to its target.
func volumeScore(rides []store.Activity, cfg ScoringConfig) int {
	var distanceKm, elevationM float64
	for _, r := range rides {
		distanceKm += r.Distance / 1000
		elevationM += r.TotalElevationGain
	}

	distance := clamp(int(math.Round(distanceKm/cfg.DistanceTargetKm*maxVolumeDistance)), 0, maxVolumeDistance)
	elevation := clamp(int(math.Round(elevationM/cfg.ElevationTargetM*maxVolumeElevation)), 0, maxVolumeElevation)

	return distance + elevation
}

// recencyScore decays exponentially with days since the most recent ride.
func recencyScore(rides []store.Activity, now time.Time, cfg ScoringConfig) int {
	var mostRecent time.Time
	for _, r := range rides {
		if d := localDate(r); d.After(mostRecent) {
			mostRecent = d
		}
	}
	if mostRecent.IsZero() {
		return 0
	}

	days := now.Sub(mostRecent).Hours() / 24
	if days < 0 {
		days = 0
	}

	return clamp(int(math.Round(MaxRecency*math.Exp(-days/cfg.RecencyDecayDays))), 0, MaxRecency)
}

// localDate returns the activity's local start time, falling back to UTC
// when the local timestamp is missing.
func localDate(a store.Activity) time.Time {
	if !a.StartDateLocal.IsZero() {
		return a.StartDateLocal
	}
	return a.StartDate
}

// validateActivities rejects structurally invalid numeric fields. Absent
// optional fields are fine; negative or NaN measurements are not.
func validateActivities(activities []store.Activity) error {
	for _, a := range activities {
		if err := validateActivity(a); err != nil {
			return err
		}
	}
	return nil
}

func validateActivity(a store.Activity) error {
	switch {
	case a.Distance < 0 || math.IsNaN(a.Distance):
		return fmt.Errorf("activity %d: invalid distance %v", a.ID, a.Distance)
	case a.TotalElevationGain < 0 || math.IsNaN(a.TotalElevationGain):
		return fmt.Errorf("activity %d: invalid elevation gain %v", a.ID, a.TotalElevationGain)
	case a.MovingTime < 0:
		return fmt.Errorf("activity %d: invalid moving time %d", a.ID, a.MovingTime)
	}
	return nil
}
