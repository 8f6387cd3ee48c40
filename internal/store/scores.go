package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoScore is returned when a rider has no cached score
var ErrNoScore = errors.New("no cached score for rider")

// SaveRiderScore stores or replaces a rider's cached analytics snapshot.
func (db *DB) SaveRiderScore(s *RiderScore) error {
	_, err := db.Exec(`
		INSERT INTO rider_scores (
			rider_id, total, frequency, volume, intensity, recency,
			eddington_miles, eddington_km, calculated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(rider_id) DO UPDATE SET
			total = excluded.total,
			frequency = excluded.frequency,
			volume = excluded.volume,
			intensity = excluded.intensity,
			recency = excluded.recency,
			eddington_miles = excluded.eddington_miles,
			eddington_km = excluded.eddington_km,
			calculated_at = excluded.calculated_at
	`, s.RiderID, s.Total, s.Frequency, s.Volume, s.Intensity, s.Recency,
		s.EddingtonMiles, s.EddingtonKm, s.CalculatedAt.Format(time.RFC3339))
	return err
}

// GetRiderScore retrieves a rider's cached analytics snapshot.
func (db *DB) GetRiderScore(riderID int64) (*RiderScore, error) {
	var s RiderScore
	var calculatedAt string
	err := db.QueryRow(`
		SELECT rider_id, total, frequency, volume, intensity, recency,
			eddington_miles, eddington_km, calculated_at
		FROM rider_scores
		WHERE rider_id = ?
	`, riderID).Scan(&s.RiderID, &s.Total, &s.Frequency, &s.Volume, &s.Intensity,
		&s.Recency, &s.EddingtonMiles, &s.EddingtonKm, &calculatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoScore
	}
	if err != nil {
		return nil, err
	}
	s.CalculatedAt, err = time.Parse(time.RFC3339, calculatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing calculated_at %q: %w", calculatedAt, err)
	}
	return &s, nil
}

// ListRiderScores returns all cached scores ordered by total descending.
func (db *DB) ListRiderScores() ([]RiderScore, error) {
	rows, err := db.Query(`
		SELECT rider_id, total, frequency, volume, intensity, recency,
			eddington_miles, eddington_km, calculated_at
		FROM rider_scores
		ORDER BY total DESC, eddington_miles DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []RiderScore
	for rows.Next() {
		var s RiderScore
		var calculatedAt string
		if err := rows.Scan(&s.RiderID, &s.Total, &s.Frequency, &s.Volume, &s.Intensity,
			&s.Recency, &s.EddingtonMiles, &s.EddingtonKm, &calculatedAt); err != nil {
			return nil, err
		}
		s.CalculatedAt, err = time.Parse(time.RFC3339, calculatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing calculated_at %q: %w", calculatedAt, err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
