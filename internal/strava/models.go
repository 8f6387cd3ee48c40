package strava

import "time"

// Activity represents a Strava activity from the API
type Activity struct {
	ID                   int64     `json:"id"`
	Athlete              Athlete   `json:"athlete"`
	Name                 string    `json:"name"`
	Type                 string    `json:"type"`
	SportType            string    `json:"sport_type"`
	StartDate            time.Time `json:"start_date"`
	StartDateLocal       time.Time `json:"start_date_local"`
	Timezone             string    `json:"timezone"`
	Distance             float64   `json:"distance"`             // meters
	MovingTime           int       `json:"moving_time"`          // seconds
	ElapsedTime          int       `json:"elapsed_time"`         // seconds
	TotalElevationGain   float64   `json:"total_elevation_gain"` // meters
	AverageSpeed         float64   `json:"average_speed"`        // m/s
	MaxSpeed             float64   `json:"max_speed"`            // m/s
	AverageHeartrate     float64   `json:"average_heartrate"`    // bpm
	MaxHeartrate         float64   `json:"max_heartrate"`        // bpm
	AverageWatts         float64   `json:"average_watts"`
	WeightedAverageWatts float64   `json:"weighted_average_watts"`
	DeviceWatts          bool      `json:"device_watts"`
	SufferScore          float64   `json:"suffer_score"`
	HasHeartrate         bool      `json:"has_heartrate"`
}

// Athlete represents a Strava athlete (minimal info in activity response)
type Athlete struct {
	ID int64 `json:"id"`
}
