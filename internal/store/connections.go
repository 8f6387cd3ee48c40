package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNoConnection is returned when a rider has no Strava connection
var ErrNoConnection = errors.New("no strava connection for rider")

// GetConnection retrieves a rider's stored Strava tokens.
func (db *DB) GetConnection(riderID int64) (*Connection, error) {
	var c Connection
	var expiresAt int64
	err := db.QueryRow(`
		SELECT rider_id, athlete_id, access_token, refresh_token, expires_at
		FROM strava_connections
		WHERE rider_id = ?
	`, riderID).Scan(&c.RiderID, &c.AthleteID, &c.AccessToken, &c.RefreshToken, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoConnection
	}
	if err != nil {
		return nil, err
	}
	c.ExpiresAt = time.Unix(expiresAt, 0)
	return &c, nil
}

// SaveConnection stores or replaces a rider's Strava tokens.
func (db *DB) SaveConnection(c *Connection) error {
	_, err := db.Exec(`
		INSERT INTO strava_connections (rider_id, athlete_id, access_token, refresh_token, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(rider_id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP
	`, c.RiderID, c.AthleteID, c.AccessToken, c.RefreshToken, c.ExpiresAt.Unix())
	return err
}

// UpdateConnectionTokens updates just the tokens for a rider after a refresh.
func (db *DB) UpdateConnectionTokens(riderID int64, accessToken, refreshToken string, expiresAt time.Time) error {
	result, err := db.Exec(`
		UPDATE strava_connections
		SET access_token = ?, refresh_token = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE rider_id = ?
	`, accessToken, refreshToken, expiresAt.Unix(), riderID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoConnection
	}
	return nil
}

// DeleteConnection removes a rider's Strava connection.
func (db *DB) DeleteConnection(riderID int64) error {
	_, err := db.Exec(`DELETE FROM strava_connections WHERE rider_id = ?`, riderID)
	return err
}

// ListConnectedRiderIDs returns the ids of all riders with a Strava connection.
func (db *DB) ListConnectedRiderIDs() ([]int64, error) {
	rows, err := db.Query(`SELECT rider_id FROM strava_connections ORDER BY rider_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
