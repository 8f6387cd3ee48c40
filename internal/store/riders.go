package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRiderNotFound is returned when a rider doesn't exist
var ErrRiderNotFound = errors.New("rider not found")

// ErrRideNotFound is returned when a scheduled ride doesn't exist
var ErrRideNotFound = errors.New("ride not found")

// AddRider inserts a rider and returns its assigned id.
func (db *DB) AddRider(r *Rider) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO riders (name, rusa_id, email) VALUES (?, ?, ?)
	`, r.Name, r.RusaID, r.Email)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetRider retrieves a rider by ID
func (db *DB) GetRider(id int64) (*Rider, error) {
	var r Rider
	var rusaID, email sql.NullString
	err := db.QueryRow(`
		SELECT id, name, rusa_id, email FROM riders WHERE id = ?
	`, id).Scan(&r.ID, &r.Name, &rusaID, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRiderNotFound
	}
	if err != nil {
		return nil, err
	}
	r.RusaID = rusaID.String
	r.Email = email.String
	return &r, nil
}

// GetRiderByName retrieves a rider by exact name match
func (db *DB) GetRiderByName(name string) (*Rider, error) {
	var r Rider
	var rusaID, email sql.NullString
	err := db.QueryRow(`
		SELECT id, name, rusa_id, email FROM riders WHERE name = ?
	`, name).Scan(&r.ID, &r.Name, &rusaID, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRiderNotFound
	}
	if err != nil {
		return nil, err
	}
	r.RusaID = rusaID.String
	r.Email = email.String
	return &r, nil
}

// ListRiders returns all riders ordered by name
func (db *DB) ListRiders() ([]Rider, error) {
	rows, err := db.Query(`
		SELECT id, name, rusa_id, email FROM riders ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var riders []Rider
	for rows.Next() {
		var r Rider
		var rusaID, email sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &rusaID, &email); err != nil {
			return nil, err
		}
		r.RusaID = rusaID.String
		r.Email = email.String
		riders = append(riders, r)
	}
	return riders, rows.Err()
}

// UpsertRide inserts or updates a scheduled ride
func (db *DB) UpsertRide(r *Ride) error {
	_, err := db.Exec(`
		INSERT INTO rides (id, name, ride_date, distance_km, elevation_ft, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			ride_date = excluded.ride_date,
			distance_km = excluded.distance_km,
			elevation_ft = excluded.elevation_ft,
			updated_at = CURRENT_TIMESTAMP
	`, r.ID, r.Name, r.Date.Format(time.RFC3339), r.DistanceKm, r.ElevationFt)
	return err
}

// GetRide retrieves a scheduled ride by ID
func (db *DB) GetRide(id int64) (*Ride, error) {
	var r Ride
	var date string
	var elevation sql.NullFloat64
	err := db.QueryRow(`
		SELECT id, name, ride_date, distance_km, elevation_ft FROM rides WHERE id = ?
	`, id).Scan(&r.ID, &r.Name, &date, &r.DistanceKm, &elevation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRideNotFound
	}
	if err != nil {
		return nil, err
	}
	r.Date, err = time.Parse(time.RFC3339, date)
	if err != nil {
		return nil, fmt.Errorf("parsing ride_date %q: %w", date, err)
	}
	r.ElevationFt = elevation.Float64
	return &r, nil
}

// SetParticipation records or updates a rider's status for a ride
func (db *DB) SetParticipation(riderID, rideID int64, status RideStatus) error {
	_, err := db.Exec(`
		INSERT INTO rider_rides (rider_id, ride_id, status, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(rider_id, ride_id) DO UPDATE SET
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP
	`, riderID, rideID, string(status))
	return err
}

// GetParticipations returns a rider's ride history joined with ride details,
// most recent first.
func (db *DB) GetParticipations(riderID int64) ([]Participation, error) {
	rows, err := db.Query(`
		SELECT rr.rider_id, rr.ride_id, rr.status,
			ri.name, ri.ride_date, ri.distance_km, ri.elevation_ft
		FROM rider_rides rr
		JOIN rides ri ON rr.ride_id = ri.id
		WHERE rr.rider_id = ?
		ORDER BY ri.ride_date DESC
	`, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participations []Participation
	for rows.Next() {
		var p Participation
		var status, date string
		var elevation sql.NullFloat64
		if err := rows.Scan(&p.RiderID, &p.RideID, &status, &p.RideName, &date, &p.DistanceKm, &elevation); err != nil {
			return nil, err
		}
		p.Status = RideStatus(status)
		p.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("parsing ride_date %q: %w", date, err)
		}
		p.ElevationFt = elevation.Float64
		participations = append(participations, p)
	}
	return participations, rows.Err()
}

// GetFinishedRides returns a rider's FINISHED participations, most recent first.
func (db *DB) GetFinishedRides(riderID int64) ([]Participation, error) {
	all, err := db.GetParticipations(riderID)
	if err != nil {
		return nil, err
	}
	finished := make([]Participation, 0, len(all))
	for _, p := range all {
		if p.Status == StatusFinished {
			finished = append(finished, p)
		}
	}
	return finished, nil
}
