package analysis

import (
	"math"

	"github.com/msambhus/team-asha-randonneuring/internal/store"
)

// intensitySignal scores one kind of effort evidence across a set of rides.
// Each contributes up to signalMax points when its data is present; absent
// signals simply don't participate.
type intensitySignal struct {
	name string
	eval func(rides []store.Activity, cfg ScoringConfig) (score float64, ok bool)
}

const signalMax = 10.0

// signals are tried in order; the set that matches determines the
// normalization. With no sensor data at all, intensityScore falls back to
// ride duration for partial credit.
var signals = []intensitySignal{
	{name: "heartrate", eval: heartRateSignal},
	{name: "power", eval: powerSignal},
	{name: "suffer", eval: sufferSignal},
}

// intensityScore computes the 0-25 intensity sub-score, adaptively weighted
// by whichever signals the rides actually carry.
func intensityScore(rides []store.Activity, cfg ScoringConfig) int {
	var sum, max float64
	for _, sig := range signals {
		if score, ok := sig.eval(rides, cfg); ok {
			sum += score
			max += signalMax
		}
	}

	if max == 0 {
		return durationFallback(rides, cfg)
	}

	return clamp(int(math.Round(sum/max*MaxIntensity)), 0, MaxIntensity)
}

// heartRateSignal maps the mean average-HR, as a fraction of the highest
// max-HR seen in the window, onto the configured effort band.
func heartRateSignal(rides []store.Activity, cfg ScoringConfig) (float64, bool) {
	var sum, maxObserved float64
	var n int
	for _, r := range rides {
		if !r.HasHeartrate || r.AverageHeartrate == nil {
			continue
		}
		sum += *r.AverageHeartrate
		n++
		if r.MaxHeartrate != nil && *r.MaxHeartrate > maxObserved {
			maxObserved = *r.MaxHeartrate
		}
	}
	if n == 0 || maxObserved <= 0 {
		return 0, n > 0
	}

	avgPct := sum / float64(n) / maxObserved
	score := clampFloat((avgPct-cfg.HRFloorPct)/cfg.HRRangePct, 0, 1) * signalMax
	return score, true
}

// powerSignal scores the mean weighted-average watts against the target.
// Only rides with a power meter count; estimated watts are ignored.
func powerSignal(rides []store.Activity, cfg ScoringConfig) (float64, bool) {
	var sum float64
	var n int
	for _, r := range rides {
		if !r.DeviceWatts || r.WeightedAverageWatts == nil {
			continue
		}
		sum += *r.WeightedAverageWatts
		n++
	}
	if n == 0 {
		return 0, false
	}

	avg := sum / float64(n)
	return clampFloat(avg/cfg.PowerTarget, 0, 1) * signalMax, true
}

// sufferSignal scores Strava's relative effort metric against the target.
func sufferSignal(rides []store.Activity, cfg ScoringConfig) (float64, bool) {
	var sum float64
	var n int
	for _, r := range rides {
		if r.SufferScore == nil || *r.SufferScore <= 0 {
			continue
		}
		sum += float64(*r.SufferScore)
		n++
	}
	if n == 0 {
		return 0, false
	}

	avg := sum / float64(n)
	return clampFloat(avg/cfg.SufferFull, 0, 1) * signalMax, true
}

// durationFallback gives partial intensity credit from average ride length
// when no sensor data is available anywhere in the window.
func durationFallback(rides []store.Activity, cfg ScoringConfig) int {
	if len(rides) == 0 {
		return 0
	}
	var minutes float64
	for _, r := range rides {
		minutes += float64(r.MovingTime) / 60
	}
	avg := minutes / float64(len(rides))

	return clamp(int(math.Round(avg/cfg.DurationTargetMin*maxIntensityFallback)), 0, maxIntensityFallback)
}
