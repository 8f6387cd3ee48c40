package analysis

import (
	"math"
	"sort"

	"github.com/msambhus/team-asha-randonneuring/internal/store"
)

// Unit selects the distance unit an Eddington number is computed in.
type Unit int

const (
	Miles Unit = iota
	Kilometers
)

const metersPerMile = 1609.34

func (u Unit) fromMeters(m float64) float64 {
	if u == Miles {
		return m / metersPerMile
	}
	return m / 1000
}

// String returns the unit's display name.
func (u Unit) String() string {
	if u == Miles {
		return "mi"
	}
	return "km"
}

// EddingtonResult holds both unit variants of a rider's Eddington number.
// Each is computed from its own unit-converted day sequence; neither is
// derived from the other.
type EddingtonResult struct {
	Miles int
	Km    int
}

// EddingtonProgress describes how close a rider is to the next milestone.
type EddingtonProgress struct {
	Current       int
	NextTarget    int
	DaysNeeded    int     // qualifying days required at the next target
	DaysCompleted int     // days already at or beyond the next target
	DaysRemaining int     // DaysNeeded - DaysCompleted, floored at 0
	Percent       float64 // 0-100
}

// Eddington computes both Eddington numbers from a rider's full activity
// history. Non-ride activities and records with missing or non-positive
// distance or an unusable date are skipped; an empty history yields zeros.
func Eddington(activities []store.Activity) EddingtonResult {
	return EddingtonResult{
		Miles: EddingtonNumber(activities, Miles),
		Km:    EddingtonNumber(activities, Kilometers),
	}
}

// EddingtonNumber computes the largest e such that the rider covered at
// least e units of distance on at least e distinct local calendar days.
func EddingtonNumber(activities []store.Activity, unit Unit) int {
	days := dailyTotals(activities, unit)

	e := 0
	for i, d := range days {
		// days is sorted descending, so i+1 days have distance >= d.
		if d >= float64(i+1) {
			e = i + 1
		} else {
			break
		}
	}
	return e
}

// ProgressToNext reports progress toward current+1, counting qualifying
// days from the same per-day aggregation.
func ProgressToNext(activities []store.Activity, current int, unit Unit) EddingtonProgress {
	target := current + 1
	days := dailyTotals(activities, unit)

	completed := 0
	for _, d := range days {
		if d >= float64(target) {
			completed++
		}
	}

	remaining := target - completed
	if remaining < 0 {
		remaining = 0
	}

	return EddingtonProgress{
		Current:       current,
		NextTarget:    target,
		DaysNeeded:    target,
		DaysCompleted: completed,
		DaysRemaining: remaining,
		Percent:       clampFloat(100*float64(completed)/float64(target), 0, 100),
	}
}

// dailyTotals aggregates ride distances by local calendar day, converts to
// the target unit, and returns the per-day totals sorted descending.
func dailyTotals(activities []store.Activity, unit Unit) []float64 {
	byDay := map[string]float64{}
	for _, a := range activities {
		if a.Type != "Ride" {
			continue
		}
		if a.Distance <= 0 || math.IsNaN(a.Distance) {
			continue
		}
		day := localDate(a)
		if day.IsZero() {
			continue
		}
		byDay[day.Format("2006-01-02")] += unit.fromMeters(a.Distance)
	}

	totals := make([]float64, 0, len(byDay))
	for _, d := range byDay {
		totals = append(totals, d)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(totals)))
	return totals
}
