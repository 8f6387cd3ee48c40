package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Strava  StravaConfig  `json:"strava"`
	Club    ClubConfig    `json:"club"`
	Sync    SyncConfig    `json:"sync"`
	Display DisplayConfig `json:"display"`
}

// StravaConfig holds Strava API credentials shared by the whole club
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ClubConfig holds club-level settings
type ClubConfig struct {
	Name           string `json:"name"`
	WeeklyRideGoal int    `json:"weekly_ride_goal"`
}

// SyncConfig controls how activity sync behaves
type SyncConfig struct {
	LookbackDays    int `json:"lookback_days"`
	MaxRidersPerRun int `json:"max_riders_per_run"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Club: ClubConfig{
			Name:           "Randonneuring Club",
			WeeklyRideGoal: 4,
		},
		Sync: SyncConfig{
			LookbackDays:    28,
			MaxRidersPerRun: 50,
		},
		Display: DisplayConfig{
			DistanceUnit: "mi",
		},
	}
}

// Load reads the configuration from ~/.randoclub/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Club.Name == "" {
		cfg.Club.Name = defaults.Club.Name
	}
	if cfg.Club.WeeklyRideGoal == 0 {
		cfg.Club.WeeklyRideGoal = defaults.Club.WeeklyRideGoal
	}
	if cfg.Sync.LookbackDays == 0 {
		cfg.Sync.LookbackDays = defaults.Sync.LookbackDays
	}
	if cfg.Sync.MaxRidersPerRun == 0 {
		cfg.Sync.MaxRidersPerRun = defaults.Sync.MaxRidersPerRun
	}
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.randoclub/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}

	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}

	if c.Sync.LookbackDays < 0 {
		return fmt.Errorf("sync.lookback_days must not be negative, got %d", c.Sync.LookbackDays)
	}
	if c.Sync.MaxRidersPerRun < 0 {
		return fmt.Errorf("sync.max_riders_per_run must not be negative, got %d", c.Sync.MaxRidersPerRun)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".randoclub", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".randoclub"), nil
}
