package service

import (
	"errors"
	"testing"
	"time"

	"github.com/msambhus/team-asha-randonneuring/internal/store"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func addTestRider(t *testing.T, db *store.DB, name string) int64 {
	t.Helper()
	id, err := db.AddRider(&store.Rider{Name: name})
	if err != nil {
		t.Fatalf("adding rider %s: %v", name, err)
	}
	return id
}

func addTestScore(t *testing.T, db *store.DB, riderID int64, total, eddMiles int) {
	t.Helper()
	err := db.SaveRiderScore(&store.RiderScore{
		RiderID:        riderID,
		Total:          total,
		EddingtonMiles: eddMiles,
		CalculatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("saving score for rider %d: %v", riderID, err)
	}
}

func addFinishedRide(t *testing.T, db *store.DB, riderID, rideID int64, name string, date time.Time, distanceKm, elevationFt float64) {
	t.Helper()
	err := db.UpsertRide(&store.Ride{
		ID:          rideID,
		Name:        name,
		Date:        date,
		DistanceKm:  distanceKm,
		ElevationFt: elevationFt,
	})
	if err != nil {
		t.Fatalf("upserting ride %s: %v", name, err)
	}
	if err := db.SetParticipation(riderID, rideID, store.StatusFinished); err != nil {
		t.Fatalf("setting participation for %s: %v", name, err)
	}
}

func TestGetStandingsOrdering(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db)

	ana := addTestRider(t, db, "Ana")
	raj := addTestRider(t, db, "Raj")
	kim := addTestRider(t, db, "Kim") // never synced, no score

	addTestScore(t, db, raj, 60, 12)
	addTestScore(t, db, ana, 80, 30)

	standings, err := q.GetStandings()
	if err != nil {
		t.Fatalf("GetStandings: %v", err)
	}

	if len(standings) != 3 {
		t.Fatalf("got %d standings, want 3", len(standings))
	}

	if standings[0].Rider.Name != "Ana" || standings[1].Rider.Name != "Raj" {
		t.Errorf("order = [%s, %s, %s], want scored riders by total descending",
			standings[0].Rider.Name, standings[1].Rider.Name, standings[2].Rider.Name)
	}
	if standings[2].Rider.ID != kim || standings[2].Score != nil {
		t.Errorf("unscored rider should sort last with nil score")
	}

	if !standings[0].HasBadge || standings[0].Badge.Label != "Solid" {
		t.Errorf("Ana badge = %+v (has=%v), want Solid", standings[0].Badge, standings[0].HasBadge)
	}
	if !standings[1].HasBadge || standings[1].Badge.Label != "Building" {
		t.Errorf("Raj badge = %+v (has=%v), want Building", standings[1].Badge, standings[1].HasBadge)
	}
	if standings[2].HasBadge {
		t.Errorf("unscored rider should have no badge")
	}
}

func TestGetRiderDetailGradesFinishedRides(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db)

	riderID := addTestRider(t, db, "Ana")
	now := time.Now()

	// Oldest to newest: two 100km rides, then a 120km ride.
	addFinishedRide(t, db, riderID, 1, "Spring 100", now.AddDate(0, 0, -60), 100, 3000)
	addFinishedRide(t, db, riderID, 2, "Summer 100", now.AddDate(0, 0, -40), 100, 3000)
	addFinishedRide(t, db, riderID, 3, "Fall 120", now.AddDate(0, 0, -10), 120, 0)

	detail, err := q.GetRiderDetail(riderID)
	if err != nil {
		t.Fatalf("GetRiderDetail: %v", err)
	}

	if len(detail.GradedRides) != 3 {
		t.Fatalf("got %d graded rides, want 3", len(detail.GradedRides))
	}

	// Newest first. The 120km ride is a 20% jump over the 100km baseline.
	newest := detail.GradedRides[0]
	if newest.Participation.RideName != "Fall 120" {
		t.Fatalf("newest graded ride = %s, want Fall 120", newest.Participation.RideName)
	}
	if newest.Grade.Overload != 20 {
		t.Errorf("Fall 120 overload = %d, want 20 (meaningful increase)", newest.Grade.Overload)
	}
	if newest.Grade.Grade != "B" || newest.Grade.Score != 62 {
		t.Errorf("Fall 120 grade = %s/%d, want B/62", newest.Grade.Grade, newest.Grade.Score)
	}

	// Holding steady against an equal baseline.
	middle := detail.GradedRides[1]
	if middle.Grade.Overload != 15 {
		t.Errorf("Summer 100 overload = %d, want 15 (holding steady)", middle.Grade.Overload)
	}

	// First ever finished ride has no baseline.
	oldest := detail.GradedRides[2]
	if oldest.Grade.Overload != 10 {
		t.Errorf("Spring 100 overload = %d, want 10 (no prior rides)", oldest.Grade.Overload)
	}
}

func TestGetRiderDetailUnknownRider(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db)

	_, err := q.GetRiderDetail(999)
	if !errors.Is(err, store.ErrRiderNotFound) {
		t.Errorf("err = %v, want ErrRiderNotFound", err)
	}
}

func TestGetDashboardData(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db)

	ana := addTestRider(t, db, "Ana")
	raj := addTestRider(t, db, "Raj")
	addTestScore(t, db, ana, 80, 30)
	addTestScore(t, db, raj, 40, 5)

	now := time.Now()
	for i, dist := range []float64{40000, 60000} {
		err := db.UpsertActivity(&store.Activity{
			ID:             int64(i + 1),
			RiderID:        ana,
			Name:           "Morning Ride",
			Type:           "Ride",
			StartDate:      now.AddDate(0, 0, -i),
			StartDateLocal: now.AddDate(0, 0, -i),
			Distance:       dist,
			MovingTime:     5400,
			ElapsedTime:    5600,
		})
		if err != nil {
			t.Fatalf("upserting activity: %v", err)
		}
	}

	data, err := q.GetDashboardData()
	if err != nil {
		t.Fatalf("GetDashboardData: %v", err)
	}

	if data.ClubReadiness != 60 {
		t.Errorf("ClubReadiness = %d, want 60 (average of 80 and 40)", data.ClubReadiness)
	}
	if data.RidersScored != 2 || data.RidersTotal != 2 {
		t.Errorf("scored/total = %d/%d, want 2/2", data.RidersScored, data.RidersTotal)
	}
	if len(data.RecentActivities) != 2 {
		t.Errorf("got %d recent activities, want 2", len(data.RecentActivities))
	}

	if len(data.DailyDistanceKm) != dashboardTrendDays {
		t.Fatalf("trend has %d days, want %d", len(data.DailyDistanceKm), dashboardTrendDays)
	}
	var totalKm float64
	for _, d := range data.DailyDistanceKm {
		totalKm += d
	}
	if totalKm < 99.9 || totalKm > 100.1 {
		t.Errorf("trend total = %.1f km, want 100", totalKm)
	}
}
