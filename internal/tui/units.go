package tui

import (
	"fmt"

	"github.com/msambhus/team-asha-randonneuring/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
)

// Units provides unit conversion and formatting based on club preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in meters to the preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f mi", meters/metersPerMile)
	}
	return fmt.Sprintf("%.1f km", meters/metersPerKm)
}

// FormatDistanceValue returns just the numeric distance value (no unit label)
func (u Units) FormatDistanceValue(meters float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f", meters/metersPerMile)
	}
	return fmt.Sprintf("%.1f", meters/metersPerKm)
}

// ConvertKmSeries converts a km series for charting in the preferred unit
func (u Units) ConvertKmSeries(km []float64) []float64 {
	if !u.IsMiles() {
		return km
	}
	converted := make([]float64, len(km))
	for i, v := range km {
		converted[i] = v * metersPerKm / metersPerMile
	}
	return converted
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.IsMiles() {
		return "mi"
	}
	return "km"
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit == "mi"
}
