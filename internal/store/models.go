package store

import "time"

// RideStatus is a rider's relationship to a scheduled ride.
// Pre-ride statuses express intent; post-ride statuses record the outcome.
type RideStatus string

const (
	StatusInterested RideStatus = "INTERESTED"
	StatusMaybe      RideStatus = "MAYBE"
	StatusGoing      RideStatus = "GOING"

	StatusFinished RideStatus = "FINISHED" // completed within the time limit
	StatusDNF      RideStatus = "DNF"      // started but did not finish
	StatusDNS      RideStatus = "DNS"      // registered but did not start
	StatusOTL      RideStatus = "OTL"      // finished outside the time limit
)

// IsPostRide reports whether the status records an outcome rather than intent.
func (s RideStatus) IsPostRide() bool {
	switch s {
	case StatusFinished, StatusDNF, StatusDNS, StatusOTL:
		return true
	}
	return false
}

// Rider is a club member.
type Rider struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	RusaID string `db:"rusa_id"`
	Email  string `db:"email"`
}

// Ride is a scheduled brevet or club ride.
type Ride struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Date        time.Time `db:"ride_date"`
	DistanceKm  float64   `db:"distance_km"`
	ElevationFt float64   `db:"elevation_ft"`
}

// Participation is a rider's record for one scheduled ride, joined with
// the ride's distance and date for grading.
type Participation struct {
	RiderID     int64      `db:"rider_id"`
	RideID      int64      `db:"ride_id"`
	Status      RideStatus `db:"status"`
	RideName    string     `db:"ride_name"`
	Date        time.Time  `db:"ride_date"`
	DistanceKm  float64    `db:"distance_km"`
	ElevationFt float64    `db:"elevation_ft"`
}

// Activity is a Strava activity summary for one rider.
type Activity struct {
	ID                   int64     `db:"id"` // Strava activity id
	RiderID              int64     `db:"rider_id"`
	Name                 string    `db:"name"`
	Type                 string    `db:"type"`
	StartDate            time.Time `db:"start_date"`
	StartDateLocal       time.Time `db:"start_date_local"`
	Distance             float64   `db:"distance"`    // meters
	MovingTime           int       `db:"moving_time"` // seconds
	ElapsedTime          int       `db:"elapsed_time"`
	TotalElevationGain   float64   `db:"total_elevation_gain"` // meters
	AverageSpeed         float64   `db:"average_speed"`        // m/s
	MaxSpeed             float64   `db:"max_speed"`
	AverageHeartrate     *float64  `db:"average_heartrate"` // nullable
	MaxHeartrate         *float64  `db:"max_heartrate"`
	AverageWatts         *float64  `db:"average_watts"`
	WeightedAverageWatts *float64  `db:"weighted_average_watts"`
	SufferScore          *int      `db:"suffer_score"`
	DeviceWatts          bool      `db:"device_watts"`
	HasHeartrate         bool      `db:"has_heartrate"`
}

// Connection holds a rider's Strava OAuth tokens.
type Connection struct {
	RiderID      int64     `db:"rider_id"`
	AthleteID    int64     `db:"athlete_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// RiderScore is a cached analytics snapshot for a rider. The engines are
// pure; this row is the caller-side cache refreshed after each sync.
type RiderScore struct {
	RiderID        int64     `db:"rider_id"`
	Total          int       `db:"total"`
	Frequency      int       `db:"frequency"`
	Volume         int       `db:"volume"`
	Intensity      int       `db:"intensity"`
	Recency        int       `db:"recency"`
	EddingtonMiles int       `db:"eddington_miles"`
	EddingtonKm    int       `db:"eddington_km"`
	CalculatedAt   time.Time `db:"calculated_at"`
}
