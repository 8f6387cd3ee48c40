package analysis

import (
	"testing"
	"time"
)

func TestGradeRideComponents(t *testing.T) {
	cfg := DefaultScoring()

	tests := []struct {
		name     string
		effort   RideEffort
		prior    []RideEffort
		expected RideGrade
	}{
		{
			name: "reference ride with no sensors grades from pace",
			effort: RideEffort{
				DistanceKm: 60,
				ElevationM: 1000,
				MovingTime: 8640, // 60 km in 2.4 h = 25 km/h, full pace credit
			},
			expected: RideGrade{
				Grade: "A", Score: 90,
				Distance: 30, Elevation: 25, Intensity: 25, Overload: 10,
			},
		},
		{
			name: "short flat ride",
			effort: RideEffort{
				DistanceKm: 20,
				ElevationM: 100,
				MovingTime: 4800, // 15 km/h
			},
			expected: RideGrade{
				Grade: "C", Score: 38,
				Distance: 10, Elevation: 3, Intensity: 15, Overload: 10,
			},
		},
		{
			name: "zero distance ride",
			effort: RideEffort{
				DistanceKm: 0,
				ElevationM: 0,
			},
			expected: RideGrade{
				Grade: "D", Score: 22, // neutral intensity and overload credit only
				Distance: 0, Elevation: 0, Intensity: 12, Overload: 10,
			},
		},
		{
			name: "heart rate preferred over pace",
			effort: RideEffort{
				DistanceKm:   100,
				ElevationM:   500,
				MovingTime:   36000, // 10 km/h would score poorly on pace
				AvgHeartrate: floatPtr(153),
				MaxHeartrate: floatPtr(180),
			},
			expected: RideGrade{
				Grade: "A", Score: 78,
				Distance: 30, Elevation: 13, Intensity: 25, Overload: 10,
				// avg/max = 0.85 hits the top of the HR band
			},
		},
		{
			name: "power used when no heart rate",
			effort: RideEffort{
				DistanceKm: 90,
				ElevationM: 200,
				AvgWatts:   floatPtr(90), // half of target
			},
			expected: RideGrade{
				Grade: "B", Score: 58,
				Distance: 30, Elevation: 5, Intensity: 13, Overload: 10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GradeRide(tt.effort, tt.prior, cfg)
			if err != nil {
				t.Fatalf("GradeRide() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("GradeRide() = %+v, want %+v", got, tt.expected)
			}
			if got.Score != got.Distance+got.Elevation+got.Intensity+got.Overload {
				t.Errorf("Score %d != component sum", got.Score)
			}
		})
	}
}

func TestGradeRideOverload(t *testing.T) {
	cfg := DefaultScoring()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	prior := []RideEffort{
		{DistanceKm: 100, Date: date.AddDate(0, 0, -14)},
		{DistanceKm: 110, Date: date.AddDate(0, 0, -28)},
		{DistanceKm: 90, Date: date.AddDate(0, 0, -42)},
	}
	// baseline = avg of last 3 = 100 km

	tests := []struct {
		name     string
		km       float64
		prior    []RideEffort
		expected int
	}{
		{name: "no prior rides is neutral", km: 200, prior: nil, expected: 10},
		{name: "meaningful increase", km: 120, prior: prior, expected: 20},
		{name: "holding steady", km: 105, prior: prior, expected: 15},
		{name: "modest drop", km: 85, prior: prior, expected: 10},
		{name: "large drop", km: 60, prior: prior, expected: 6},
		{name: "collapse", km: 30, prior: prior, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GradeRide(RideEffort{DistanceKm: tt.km, Date: date}, tt.prior, cfg)
			if err != nil {
				t.Fatalf("GradeRide() error = %v", err)
			}
			if got.Overload != tt.expected {
				t.Errorf("Overload = %d, want %d", got.Overload, tt.expected)
			}
		})
	}
}

func TestGradeRideRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		effort RideEffort
	}{
		{name: "negative distance", effort: RideEffort{DistanceKm: -10}},
		{name: "negative elevation", effort: RideEffort{DistanceKm: 50, ElevationM: -100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GradeRide(tt.effort, nil, DefaultScoring()); err == nil {
				t.Error("GradeRide() did not reject malformed effort")
			}
		})
	}
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, "A"},
		{70, "A"},
		{69, "B"},
		{50, "B"},
		{49, "C"},
		{30, "C"},
		{29, "D"},
		{15, "D"},
		{14, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		if got := letterGrade(tt.score); got != tt.expected {
			t.Errorf("letterGrade(%d) = %q, want %q", tt.score, got, tt.expected)
		}
	}
}

func TestGradeRideIdempotent(t *testing.T) {
	effort := RideEffort{DistanceKm: 75, ElevationM: 850, MovingTime: 12000}
	prior := []RideEffort{{DistanceKm: 60}, {DistanceKm: 65}}

	first, err := GradeRide(effort, prior, DefaultScoring())
	if err != nil {
		t.Fatalf("GradeRide() error = %v", err)
	}
	second, err := GradeRide(effort, prior, DefaultScoring())
	if err != nil {
		t.Fatalf("GradeRide() error = %v", err)
	}
	if first != second {
		t.Errorf("repeated grading differs: %+v vs %+v", first, second)
	}
}
