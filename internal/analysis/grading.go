package analysis

import (
	"fmt"
	"math"
	"time"
)

// RideEffort is a single completed ride prepared for grading. Distance and
// elevation come from the participation record; the optional sensor fields
// come from a matched activity when one exists.
type RideEffort struct {
	DistanceKm float64
	ElevationM float64
	MovingTime int // seconds, 0 when unknown
	Date       time.Time

	AvgHeartrate *float64
	MaxHeartrate *float64
	AvgWatts     *float64
}

// RideGrade is a letter grade for one completed ride with its component
// breakdown. Score is always the sum of the four components.
type RideGrade struct {
	Grade     string // A, B, C, D, or F
	Score     int    // 0-100
	Distance  int
	Elevation int
	Intensity int
	Overload  int
}

// GradeRide grades one completed ride against the club's reference values,
// using the rider's prior finished rides (most recent first) as the
// progressive-overload baseline. Missing sensor data degrades components;
// only structurally invalid numbers are rejected.
func GradeRide(effort RideEffort, prior []RideEffort, cfg ScoringConfig) (RideGrade, error) {
	if effort.DistanceKm < 0 || math.IsNaN(effort.DistanceKm) {
		return RideGrade{}, fmt.Errorf("invalid ride distance %v", effort.DistanceKm)
	}
	if effort.ElevationM < 0 || math.IsNaN(effort.ElevationM) {
		return RideGrade{}, fmt.Errorf("invalid ride elevation %v", effort.ElevationM)
	}

	distance := linearCredit(effort.DistanceKm, cfg.GradeDistanceKm, gradeDistanceWeight)
	elevation := linearCredit(effort.ElevationM, cfg.GradeClimbM, gradeElevationWeight)
	intensity := rideIntensity(effort, cfg)
	overload := overloadCredit(effort, prior, cfg)

	score := clamp(distance+elevation+intensity+overload, 0, 100)

	return RideGrade{
		Grade:     letterGrade(score),
		Score:     score,
		Distance:  distance,
		Elevation: elevation,
		Intensity: intensity,
		Overload:  overload,
	}, nil
}

// linearCredit scales value toward weight, saturating at the reference.
func linearCredit(value, reference float64, weight int) int {
	if value <= 0 || reference <= 0 {
		return 0
	}
	return clamp(int(math.Round(value/reference*float64(weight))), 0, weight)
}

// rideIntensity picks the best available effort evidence for one ride:
// heart rate, then power, then a speed proxy. With no evidence at all it
// returns neutral mid-scale credit rather than punishing missing sensors.
func rideIntensity(effort RideEffort, cfg ScoringConfig) int {
	if effort.AvgHeartrate != nil && effort.MaxHeartrate != nil && *effort.MaxHeartrate > 0 {
		pct := *effort.AvgHeartrate / *effort.MaxHeartrate
		frac := clampFloat((pct-cfg.HRFloorPct)/cfg.HRRangePct, 0, 1)
		return int(math.Round(frac * gradeIntensityWeight))
	}

	if effort.AvgWatts != nil && *effort.AvgWatts > 0 {
		frac := clampFloat(*effort.AvgWatts/cfg.PowerTarget, 0, 1)
		return int(math.Round(frac * gradeIntensityWeight))
	}

	if effort.MovingTime > 0 && effort.DistanceKm > 0 {
		speedKmh := effort.DistanceKm / (float64(effort.MovingTime) / 3600)
		frac := clampFloat(speedKmh/cfg.GradeSpeedKmh, 0, 1)
		return int(math.Round(frac * gradeIntensityWeight))
	}

	return gradeIntensityWeight / 2
}

// overloadCredit compares the ride's distance to the average of the last
// OverloadLookback prior rides. Meaningful increases score high, holding
// steady scores well, and large unexplained drops score low. With no prior
// rides the component is neutral.
func overloadCredit(effort RideEffort, prior []RideEffort, cfg ScoringConfig) int {
	if len(prior) == 0 {
		return gradeOverloadWeight / 2
	}

	n := cfg.OverloadLookback
	if n <= 0 || n > len(prior) {
		n = len(prior)
	}
	var baseline float64
	for _, p := range prior[:n] {
		baseline += p.DistanceKm
	}
	baseline /= float64(n)

	if baseline <= 0 {
		return gradeOverloadWeight / 2
	}

	ratio := effort.DistanceKm / baseline
	switch {
	case ratio >= 1.15:
		return gradeOverloadWeight
	case ratio >= 1.0:
		return gradeOverloadWeight * 3 / 4
	case ratio >= 0.8:
		return gradeOverloadWeight / 2
	case ratio >= 0.5:
		return gradeOverloadWeight * 3 / 10
	default:
		return gradeOverloadWeight * 3 / 20
	}
}

// letterGrade maps a 0-100 ride score to its letter via fixed boundaries.
func letterGrade(score int) string {
	switch {
	case score >= gradeAThreshold:
		return "A"
	case score >= gradeBThreshold:
		return "B"
	case score >= gradeCThreshold:
		return "C"
	case score >= gradeDThreshold:
		return "D"
	default:
		return "F"
	}
}
