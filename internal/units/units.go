// Package units provides shared constants and validation for speed display units.
//
// Telemetry records speeds in world units per second. The engine convention maps
// one world unit to one metre, so conversions to road units are exact.
package units

// Unit constants
const (
	UPS  = "ups"
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{UPS, MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "ups, mps, mph, kmph, kph"
}

// ConvertSpeed converts a speed from world units per second to the target units.
// Reports store speeds in u/s; conversion happens at the display edge only.
func ConvertSpeed(speedUPS float64, targetUnits string) float64 {
	switch targetUnits {
	case UPS, MPS:
		return speedUPS
	case MPH:
		return speedUPS * 2.2369362920544
	case KMPH, KPH:
		return speedUPS * 3.6
	default:
		return speedUPS
	}
}

// Label returns the display suffix for a unit.
func Label(unit string) string {
	switch unit {
	case MPS:
		return "m/s"
	case MPH:
		return "mph"
	case KMPH, KPH:
		return "km/h"
	default:
		return "u/s"
	}
}
