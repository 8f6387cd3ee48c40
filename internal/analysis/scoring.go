package analysis

// Sub-score caps. The composite readiness score is their sum, so the four
// caps total 100.
const (
	MaxFrequency = 25
	MaxVolume    = 35
	MaxIntensity = 25
	MaxRecency   = 15

	// Volume splits into distance and climbing portions
	maxVolumeDistance  = 20
	maxVolumeElevation = 15

	// Duration fallback when no sensor data exists never reaches the full
	// intensity cap
	maxIntensityFallback = 15
)

// Per-ride grade component weights, summing to 100.
const (
	gradeDistanceWeight  = 30
	gradeElevationWeight = 25
	gradeIntensityWeight = 25
	gradeOverloadWeight  = 20
)

// Letter grade boundaries on the 0-100 ride score.
const (
	gradeAThreshold = 70
	gradeBThreshold = 50
	gradeCThreshold = 30
	gradeDThreshold = 15
)

// ScoringConfig holds the reference values the engines normalize against.
// Engines take it as a parameter so callers and tests can override targets
// without touching package state.
type ScoringConfig struct {
	WindowDays int // lookback window for the readiness score

	FrequencyTarget  float64 // rides per week for a full frequency score
	DistanceTargetKm float64 // total distance over the window for full distance credit
	ElevationTargetM float64 // total climbing over the window for full elevation credit

	HRFloorPct  float64 // avg HR as fraction of max observed scoring zero
	HRRangePct  float64 // fraction-of-max span from floor to full credit
	PowerTarget float64 // weighted avg watts for full power credit
	SufferFull  float64 // relative effort value for full credit

	DurationTargetMin float64 // avg ride minutes for the no-sensor fallback
	RecencyDecayDays  float64 // e-folding time of the recency decay

	GradeDistanceKm  float64 // ride distance for full distance credit
	GradeClimbM      float64 // ride climbing for full elevation credit
	GradeSpeedKmh    float64 // average speed for full pace-proxy credit
	OverloadLookback int     // prior rides averaged into the overload baseline
}

// DefaultScoring returns the club's standard reference values.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		WindowDays:        28,
		FrequencyTarget:   4,
		DistanceTargetKm:  400,
		ElevationTargetM:  4000,
		HRFloorPct:        0.55,
		HRRangePct:        0.30,
		PowerTarget:       180,
		SufferFull:        80,
		DurationTargetMin: 120,
		RecencyDecayDays:  10,
		GradeDistanceKm:   60,
		GradeClimbM:       1000,
		GradeSpeedKmh:     25,
		OverloadLookback:  3,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
