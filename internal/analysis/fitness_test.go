package analysis

import (
	"testing"
	"time"

	"github.com/msambhus/team-asha-randonneuring/internal/store"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// trainingBlock builds count rides per week over four weeks ending at now,
// each of the given distance (km), climbing (m), and moving time (min).
func trainingBlock(now time.Time, perWeek int, km, climbM float64, minutes int) []store.Activity {
	var acts []store.Activity
	id := int64(1)
	for week := 0; week < 4; week++ {
		for n := 0; n < perWeek; n++ {
			day := now.AddDate(0, 0, -(week*7 + n*2))
			acts = append(acts, store.Activity{
				ID:                 id,
				Type:               "Ride",
				StartDate:          day,
				StartDateLocal:     day,
				Distance:           km * 1000,
				TotalElevationGain: climbM,
				MovingTime:         minutes * 60,
			})
			id++
		}
	}
	return acts
}

func TestCalculateFitnessEmptyInput(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		activities []store.Activity
	}{
		{name: "nil input", activities: nil},
		{name: "empty slice", activities: []store.Activity{}},
		{
			name: "only non-ride activities",
			activities: []store.Activity{
				{ID: 1, Type: "Run", StartDateLocal: now, Distance: 10000, MovingTime: 3600},
				{ID: 2, Type: "Swim", StartDateLocal: now, Distance: 2000, MovingTime: 1800},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := CalculateFitness(tt.activities, now, DefaultScoring())
			if err != nil {
				t.Fatalf("CalculateFitness() error = %v, want nil", err)
			}
			if score != (FitnessScore{}) {
				t.Errorf("CalculateFitness() = %+v, want all zeros", score)
			}
		})
	}
}

func TestCalculateFitnessComposite(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	cfg := DefaultScoring()

	// 3 rides/week, 40 km and 400 m each, 2 h moving time, no sensor data.
	acts := trainingBlock(now, 3, 40, 400, 120)

	score, err := CalculateFitness(acts, now, cfg)
	if err != nil {
		t.Fatalf("CalculateFitness() error = %v", err)
	}

	// 3 of 4 rides/week target -> round(3/4 * 25) = 19
	if score.Frequency != 19 {
		t.Errorf("Frequency = %d, want 19", score.Frequency)
	}
	// 480 km >= 400 target and 4800 m >= 4000 target -> full 35
	if score.Volume != MaxVolume {
		t.Errorf("Volume = %d, want %d", score.Volume, MaxVolume)
	}
	// No sensors: duration fallback at the 120 min target -> 15
	if score.Intensity != maxIntensityFallback {
		t.Errorf("Intensity = %d, want %d", score.Intensity, maxIntensityFallback)
	}
	// Most recent ride is today -> full recency
	if score.Recency != MaxRecency {
		t.Errorf("Recency = %d, want %d", score.Recency, MaxRecency)
	}
	if score.Total != score.Frequency+score.Volume+score.Intensity+score.Recency {
		t.Errorf("Total %d != sum of sub-scores", score.Total)
	}
}

func TestCalculateFitnessBounds(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	cfg := DefaultScoring()

	tests := []struct {
		name       string
		activities []store.Activity
	}{
		{
			name:       "huge volume saturates at caps",
			activities: trainingBlock(now, 10, 300, 5000, 600),
		},
		{
			name: "single tiny ride",
			activities: []store.Activity{
				{ID: 1, Type: "Ride", StartDateLocal: now.AddDate(0, 0, -20), Distance: 5000, MovingTime: 900},
			},
		},
		{
			name: "rides with full sensor data",
			activities: []store.Activity{
				{
					ID: 1, Type: "Ride", StartDateLocal: now, Distance: 80000, MovingTime: 10800,
					TotalElevationGain: 900, HasHeartrate: true,
					AverageHeartrate: floatPtr(150), MaxHeartrate: floatPtr(182),
					DeviceWatts: true, WeightedAverageWatts: floatPtr(195),
					SufferScore: intPtr(120),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := CalculateFitness(tt.activities, now, cfg)
			if err != nil {
				t.Fatalf("CalculateFitness() error = %v", err)
			}
			if score.Total < 0 || score.Total > 100 {
				t.Errorf("Total %d outside [0,100]", score.Total)
			}
			if score.Frequency < 0 || score.Frequency > MaxFrequency {
				t.Errorf("Frequency %d outside [0,%d]", score.Frequency, MaxFrequency)
			}
			if score.Volume < 0 || score.Volume > MaxVolume {
				t.Errorf("Volume %d outside [0,%d]", score.Volume, MaxVolume)
			}
			if score.Intensity < 0 || score.Intensity > MaxIntensity {
				t.Errorf("Intensity %d outside [0,%d]", score.Intensity, MaxIntensity)
			}
			if score.Recency < 0 || score.Recency > MaxRecency {
				t.Errorf("Recency %d outside [0,%d]", score.Recency, MaxRecency)
			}
			if sum := score.Frequency + score.Volume + score.Intensity + score.Recency; score.Total != clamp(sum, 0, 100) {
				t.Errorf("Total %d != clamped sum %d", score.Total, sum)
			}
		})
	}
}

func TestCalculateFitnessIntensitySignals(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	cfg := DefaultScoring()

	tests := []struct {
		name     string
		activity store.Activity
		expected int
	}{
		{
			name: "heart rate only",
			activity: store.Activity{
				ID: 1, Type: "Ride", StartDateLocal: now, Distance: 50000, MovingTime: 7200,
				HasHeartrate:     true,
				AverageHeartrate: floatPtr(140),
				MaxHeartrate:     floatPtr(180),
			},
			// avg/max = 0.778; (0.778-0.55)/0.30 = 0.759 -> 7.6 of 10 -> 19 of 25
			expected: 19,
		},
		{
			name: "power only, at target",
			activity: store.Activity{
				ID: 1, Type: "Ride", StartDateLocal: now, Distance: 50000, MovingTime: 7200,
				DeviceWatts:          true,
				WeightedAverageWatts: floatPtr(180),
			},
			expected: MaxIntensity,
		},
		{
			name: "suffer score only, at target",
			activity: store.Activity{
				ID: 1, Type: "Ride", StartDateLocal: now, Distance: 50000, MovingTime: 7200,
				SufferScore: intPtr(80),
			},
			expected: MaxIntensity,
		},
		{
			name: "no sensors falls back to duration",
			activity: store.Activity{
				ID: 1, Type: "Ride", StartDateLocal: now, Distance: 50000,
				MovingTime: 3600, // 60 of 120 min -> 8 of 15
			},
			expected: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := CalculateFitness([]store.Activity{tt.activity}, now, cfg)
			if err != nil {
				t.Fatalf("CalculateFitness() error = %v", err)
			}
			if score.Intensity != tt.expected {
				t.Errorf("Intensity = %d, want %d", score.Intensity, tt.expected)
			}
		})
	}
}

func TestCalculateFitnessRecencyDecay(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	cfg := DefaultScoring()

	tests := []struct {
		daysAgo  int
		expected int
	}{
		{0, 15},
		{3, 11}, // 15 * e^-0.3
		{10, 6}, // 15 * e^-1
		{24, 1},
		{27, 1},
	}

	for _, tt := range tests {
		day := now.AddDate(0, 0, -tt.daysAgo)
		acts := []store.Activity{
			{ID: 1, Type: "Ride", StartDate: day, StartDateLocal: day, Distance: 30000, MovingTime: 5400},
		}
		score, err := CalculateFitness(acts, now, cfg)
		if err != nil {
			t.Fatalf("CalculateFitness() error = %v", err)
		}
		if score.Recency != tt.expected {
			t.Errorf("Recency after %d days = %d, want %d", tt.daysAgo, score.Recency, tt.expected)
		}
	}
}

func TestCalculateFitnessRejectsMalformed(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		activity store.Activity
	}{
		{
			name:     "negative distance",
			activity: store.Activity{ID: 1, Type: "Ride", StartDateLocal: now, Distance: -100},
		},
		{
			name:     "negative elevation",
			activity: store.Activity{ID: 1, Type: "Ride", StartDateLocal: now, Distance: 100, TotalElevationGain: -5},
		},
		{
			name:     "negative moving time",
			activity: store.Activity{ID: 1, Type: "Ride", StartDateLocal: now, Distance: 100, MovingTime: -60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CalculateFitness([]store.Activity{tt.activity}, now, DefaultScoring()); err == nil {
				t.Error("CalculateFitness() did not reject malformed record")
			}
		})
	}
}

func TestCalculateFitnessIdempotent(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	acts := trainingBlock(now, 2, 60, 800, 150)

	first, err := CalculateFitness(acts, now, DefaultScoring())
	if err != nil {
		t.Fatalf("CalculateFitness() error = %v", err)
	}
	second, err := CalculateFitness(acts, now, DefaultScoring())
	if err != nil {
		t.Fatalf("CalculateFitness() error = %v", err)
	}
	if first != second {
		t.Errorf("repeated computation differs: %+v vs %+v", first, second)
	}
}
