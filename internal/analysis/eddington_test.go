package analysis

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/msambhus/team-asha-randonneuring/internal/store"
)

// rideOn builds a Ride activity of the given distance (meters) on a local day.
func rideOn(day time.Time, meters float64) store.Activity {
	return store.Activity{
		ID:             day.UnixNano(),
		Type:           "Ride",
		StartDate:      day,
		StartDateLocal: day,
		Distance:       meters,
	}
}

func milesOn(day time.Time, miles float64) store.Activity {
	return rideOn(day, miles*metersPerMile)
}

func TestEddingtonNumber(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		activities []store.Activity
		unit       Unit
		expected   int
	}{
		{
			name:       "empty history",
			activities: nil,
			unit:       Miles,
			expected:   0,
		},
		{
			name: "single 50 mile ride is E of 1",
			activities: []store.Activity{
				milesOn(base, 50),
			},
			unit:     Miles,
			expected: 1,
		},
		{
			name: "52 days of exactly 52 miles",
			activities: func() []store.Activity {
				var acts []store.Activity
				for i := 0; i < 52; i++ {
					acts = append(acts, milesOn(base.AddDate(0, 0, i), 52))
				}
				return acts
			}(),
			unit:     Miles,
			expected: 52,
		},
		{
			name: "multiple rides on the same day sum",
			activities: []store.Activity{
				milesOn(base, 1.2),
				milesOn(base.Add(2*time.Hour), 1.3), // same calendar day
				milesOn(base.AddDate(0, 0, 1), 3),
			},
			unit:     Miles,
			expected: 2, // two days with >= 2 miles
		},
		{
			name: "non-ride activities excluded",
			activities: []store.Activity{
				{Type: "Run", StartDateLocal: base, Distance: 100 * metersPerMile},
				{Type: "Walk", StartDateLocal: base.AddDate(0, 0, 1), Distance: 100 * metersPerMile},
			},
			unit:     Miles,
			expected: 0,
		},
		{
			name: "zero distance records excluded",
			activities: []store.Activity{
				rideOn(base, 0),
				milesOn(base.AddDate(0, 0, 1), 10),
			},
			unit:     Miles,
			expected: 1,
		},
		{
			name: "unusable dates excluded",
			activities: []store.Activity{
				{Type: "Ride", Distance: 50 * metersPerMile}, // zero time
				milesOn(base, 10),
			},
			unit:     Miles,
			expected: 1,
		},
		{
			name: "kilometers counted independently",
			activities: func() []store.Activity {
				var acts []store.Activity
				for i := 0; i < 12; i++ {
					acts = append(acts, rideOn(base.AddDate(0, 0, i), 15000)) // 15 km days
				}
				return acts
			}(),
			unit:     Kilometers,
			expected: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EddingtonNumber(tt.activities, tt.unit)
			if got != tt.expected {
				t.Errorf("EddingtonNumber() = %d, want %d", got, tt.expected)
			}
		})
	}
}

// The km and miles numbers must come from separate per-unit aggregations,
// not from converting one final integer into the other.
func TestEddingtonPerUnitIndependence(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	var acts []store.Activity
	for i := 0; i < 5; i++ {
		acts = append(acts, milesOn(base.AddDate(0, 0, i), 10))
	}

	result := Eddington(acts)

	if result.Miles != 5 {
		t.Fatalf("Miles = %d, want 5", result.Miles)
	}
	// 10 miles is ~16.09 km, so all 5 days qualify at 5 km but there are
	// only 5 days total: E_km = 5, not round(5 * 1.60934) = 8.
	if result.Km != 5 {
		t.Fatalf("Km = %d, want 5", result.Km)
	}
	derived := int(math.Round(float64(result.Miles) * 1.60934))
	if result.Km == derived {
		t.Fatalf("test case does not distinguish independent computation from conversion (both %d)", derived)
	}
}

// Adding an activity never decreases E for either unit.
func TestEddingtonMonotonic(t *testing.T) {
	base := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	var acts []store.Activity
	prev := EddingtonResult{}
	for i := 0; i < 40; i++ {
		// Varied distances, including some tiny rides
		miles := float64((i*7)%23) + 0.5
		acts = append(acts, milesOn(base.AddDate(0, 0, i), miles))

		cur := Eddington(acts)
		if cur.Miles < prev.Miles || cur.Km < prev.Km {
			t.Fatalf("E decreased after adding activity %d: %+v -> %+v", i, prev, cur)
		}
		prev = cur
	}
}

// The E-th ranked day must have distance >= E and the (E+1)-th, if any,
// must have distance < E+1.
func TestEddingtonRankInvariant(t *testing.T) {
	base := time.Date(2024, 2, 1, 6, 0, 0, 0, time.UTC)

	var acts []store.Activity
	distances := []float64{3, 62, 18, 47, 5, 30, 30, 12, 80, 21, 9, 26, 44}
	for i, d := range distances {
		acts = append(acts, milesOn(base.AddDate(0, 0, i), d))
	}

	e := EddingtonNumber(acts, Miles)
	days := dailyTotals(acts, Miles)

	if e > len(days) {
		t.Fatalf("E = %d exceeds day count %d", e, len(days))
	}
	if e > 0 && days[e-1] < float64(e) {
		t.Errorf("rank %d day has distance %.1f, want >= %d", e, days[e-1], e)
	}
	if e < len(days) && days[e] >= float64(e+1) {
		t.Errorf("rank %d day has distance %.1f, should be < %d", e+1, days[e], e+1)
	}
}

func TestProgressToNext(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		activities []store.Activity
		current    int
		expected   EddingtonProgress
	}{
		{
			name:       "empty history targets E of 1",
			activities: nil,
			current:    0,
			expected:   EddingtonProgress{Current: 0, NextTarget: 1, DaysNeeded: 1, DaysRemaining: 1},
		},
		{
			name: "52 flat days have no progress to 53",
			activities: func() []store.Activity {
				var acts []store.Activity
				for i := 0; i < 52; i++ {
					acts = append(acts, milesOn(base.AddDate(0, 0, i), 52))
				}
				return acts
			}(),
			current:  52,
			expected: EddingtonProgress{Current: 52, NextTarget: 53, DaysNeeded: 53, DaysRemaining: 53},
		},
		{
			name: "partial progress counts qualifying days",
			activities: func() []store.Activity {
				var acts []store.Activity
				for i := 0; i < 3; i++ {
					acts = append(acts, milesOn(base.AddDate(0, 0, i), 10))
				}
				acts = append(acts, milesOn(base.AddDate(0, 0, 10), 2))
				return acts
			}(),
			current: 3,
			expected: EddingtonProgress{
				Current: 3, NextTarget: 4, DaysNeeded: 4,
				DaysCompleted: 3, DaysRemaining: 1, Percent: 75,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressToNext(tt.activities, tt.current, Miles)
			if got != tt.expected {
				t.Errorf("ProgressToNext() = %+v, want %+v", got, tt.expected)
			}
			if got.DaysCompleted > got.DaysNeeded {
				t.Errorf("DaysCompleted %d exceeds DaysNeeded %d", got.DaysCompleted, got.DaysNeeded)
			}
			if got.Percent < 0 || got.Percent > 100 {
				t.Errorf("Percent %v outside [0,100]", got.Percent)
			}
		})
	}
}

func TestEddingtonIdempotent(t *testing.T) {
	base := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)

	var acts []store.Activity
	for i := 0; i < 10; i++ {
		acts = append(acts, milesOn(base.AddDate(0, 0, i), float64(5+i*3)))
	}

	first := Eddington(acts)
	second := Eddington(acts)
	if first != second {
		t.Errorf("repeated computation differs: %+v vs %+v", first, second)
	}

	p1 := ProgressToNext(acts, first.Miles, Miles)
	p2 := ProgressToNext(acts, first.Miles, Miles)
	if !reflect.DeepEqual(p1, p2) {
		t.Errorf("repeated progress differs: %+v vs %+v", p1, p2)
	}
}

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		eddington int
		label     string
		ok        bool
	}{
		{0, "", false},
		{1, "Getting Started", true},
		{9, "Getting Started", true},
		{10, "Building", true},
		{24, "Building", true},
		{25, "Solid", true},
		{49, "Solid", true},
		{50, "Strong", true},
		{74, "Strong", true},
		{75, "Exceptional", true},
		{99, "Exceptional", true},
		{100, "Legendary", true},
		{150, "Legendary", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("E=%d", tt.eddington), func(t *testing.T) {
			badge, ok := BadgeFor(tt.eddington)
			if ok != tt.ok {
				t.Fatalf("BadgeFor(%d) ok = %v, want %v", tt.eddington, ok, tt.ok)
			}
			if badge.Label != tt.label {
				t.Errorf("BadgeFor(%d).Label = %q, want %q", tt.eddington, badge.Label, tt.label)
			}
			if ok && (badge.Color == "" || badge.Symbol == "") {
				t.Errorf("BadgeFor(%d) missing presentation constants: %+v", tt.eddington, badge)
			}
		})
	}
}
