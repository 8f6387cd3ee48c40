package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Club roster
		`CREATE TABLE IF NOT EXISTS riders (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			rusa_id TEXT,
			email TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Scheduled brevets and club rides
		`CREATE TABLE IF NOT EXISTS rides (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			ride_date TEXT NOT NULL,
			distance_km REAL NOT NULL,
			elevation_ft REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_rides_date ON rides(ride_date)`,

		// Rider outcomes for scheduled rides
		`CREATE TABLE IF NOT EXISTS rider_rides (
			rider_id INTEGER NOT NULL,
			ride_id INTEGER NOT NULL,
			status TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (rider_id, ride_id),
			FOREIGN KEY (rider_id) REFERENCES riders(id) ON DELETE CASCADE,
			FOREIGN KEY (ride_id) REFERENCES rides(id) ON DELETE CASCADE
		)`,

		// Strava activity summaries (from /athlete/activities)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			rider_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			start_date_local TEXT NOT NULL,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			elapsed_time INTEGER NOT NULL,
			total_elevation_gain REAL,
			average_speed REAL,
			max_speed REAL,
			average_heartrate REAL,
			max_heartrate REAL,
			average_watts REAL,
			weighted_average_watts REAL,
			suffer_score INTEGER,
			device_watts INTEGER NOT NULL DEFAULT 0,
			has_heartrate INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (rider_id) REFERENCES riders(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_rider ON activities(rider_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// Strava OAuth tokens, one row per connected rider
		`CREATE TABLE IF NOT EXISTS strava_connections (
			rider_id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (rider_id) REFERENCES riders(id) ON DELETE CASCADE
		)`,

		// Cached analytics snapshots, refreshed after each sync
		`CREATE TABLE IF NOT EXISTS rider_scores (
			rider_id INTEGER PRIMARY KEY,
			total INTEGER NOT NULL,
			frequency INTEGER NOT NULL,
			volume INTEGER NOT NULL,
			intensity INTEGER NOT NULL,
			recency INTEGER NOT NULL,
			eddington_miles INTEGER NOT NULL,
			eddington_km INTEGER NOT NULL,
			calculated_at TEXT NOT NULL,
			FOREIGN KEY (rider_id) REFERENCES riders(id) ON DELETE CASCADE
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
