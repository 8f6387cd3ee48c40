package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrActivityNotFound is returned when an activity doesn't exist
var ErrActivityNotFound = errors.New("activity not found")

const activityColumns = `id, rider_id, name, type, start_date, start_date_local,
	distance, moving_time, elapsed_time, total_elevation_gain,
	average_speed, max_speed, average_heartrate, max_heartrate,
	average_watts, weighted_average_watts, suffer_score, device_watts, has_heartrate`

// UpsertActivity inserts or updates an activity
func (db *DB) UpsertActivity(a *Activity) error {
	_, err := db.Exec(`
		INSERT INTO activities (
			id, rider_id, name, type, start_date, start_date_local,
			distance, moving_time, elapsed_time, total_elevation_gain,
			average_speed, max_speed, average_heartrate, max_heartrate,
			average_watts, weighted_average_watts, suffer_score, device_watts,
			has_heartrate, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			rider_id = excluded.rider_id,
			name = excluded.name,
			type = excluded.type,
			start_date = excluded.start_date,
			start_date_local = excluded.start_date_local,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			elapsed_time = excluded.elapsed_time,
			total_elevation_gain = excluded.total_elevation_gain,
			average_speed = excluded.average_speed,
			max_speed = excluded.max_speed,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			average_watts = excluded.average_watts,
			weighted_average_watts = excluded.weighted_average_watts,
			suffer_score = excluded.suffer_score,
			device_watts = excluded.device_watts,
			has_heartrate = excluded.has_heartrate,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.RiderID, a.Name, a.Type,
		a.StartDate.Format(time.RFC3339), a.StartDateLocal.Format(time.RFC3339),
		a.Distance, a.MovingTime, a.ElapsedTime, a.TotalElevationGain,
		a.AverageSpeed, a.MaxSpeed, a.AverageHeartrate, a.MaxHeartrate,
		a.AverageWatts, a.WeightedAverageWatts, a.SufferScore,
		boolToInt(a.DeviceWatts), boolToInt(a.HasHeartrate),
	)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id int64) (*Activity, error) {
	row := db.QueryRow(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = ?
	`, id)

	return scanActivity(row)
}

// GetRiderActivities returns all of a rider's activities ordered by start
// date descending.
func (db *DB) GetRiderActivities(riderID int64) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE rider_id = ?
		ORDER BY start_date DESC
	`, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// GetRiderActivitiesSince returns a rider's activities starting on or after
// the given time, ordered by start date descending.
func (db *DB) GetRiderActivitiesSince(riderID int64, after time.Time) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE rider_id = ? AND start_date >= ?
		ORDER BY start_date DESC
	`, riderID, after.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListRecentActivities returns the most recent activities across the club.
func (db *DB) ListRecentActivities(limit int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY start_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListActivities returns a page of activities across the club, most
// recent first.
func (db *DB) ListActivities(limit, offset int) ([]Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY start_date DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivityInto(s rowScanner) (*Activity, error) {
	var a Activity
	var startDate, startDateLocal string
	var elevation, avgSpeed, maxSpeed sql.NullFloat64
	var deviceWatts, hasHR int

	err := s.Scan(
		&a.ID, &a.RiderID, &a.Name, &a.Type, &startDate, &startDateLocal,
		&a.Distance, &a.MovingTime, &a.ElapsedTime, &elevation,
		&avgSpeed, &maxSpeed, &a.AverageHeartrate, &a.MaxHeartrate,
		&a.AverageWatts, &a.WeightedAverageWatts, &a.SufferScore,
		&deviceWatts, &hasHR,
	)
	if err != nil {
		return nil, err
	}

	var parseErr error
	a.StartDate, parseErr = time.Parse(time.RFC3339, startDate)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, parseErr)
	}
	a.StartDateLocal, parseErr = time.Parse(time.RFC3339, startDateLocal)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date_local %q: %w", startDateLocal, parseErr)
	}
	a.TotalElevationGain = elevation.Float64
	a.AverageSpeed = avgSpeed.Float64
	a.MaxSpeed = maxSpeed.Float64
	a.DeviceWatts = deviceWatts == 1
	a.HasHeartrate = hasHR == 1

	return &a, nil
}

// scanActivity scans a single activity from a row
func scanActivity(row *sql.Row) (*Activity, error) {
	a, err := scanActivityInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	return a, err
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		a, err := scanActivityInto(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}

	return activities, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
