package telemetry

import (
	"math"

	"github.com/banshee-data/playtest.report/internal/config"
)

// headingChangeThreshold is the minimum heading deviation that counts as a
// direction change. Fixed by definition, unlike the speed gate which is
// configurable.
const headingChangeThreshold = math.Pi / 4

// CountDirectionChanges counts significant horizontal heading changes.
//
// The counter retains the heading of the last sample whose horizontal speed
// met the configured gate; slower samples neither update the retained heading
// nor compare against it, so a standstill between two fast stretches does not
// manufacture a change. Heading deltas are normalized into [0, pi] before the
// 45 degree comparison. There is no smoothing or hysteresis: oscillation near
// the threshold counts repeatedly, a documented tradeoff kept as-is.
func CountDirectionChanges(samples []Sample, cfg *config.AnalysisConfig) int {
	speedThreshold := cfg.GetDirectionSpeedThreshold()

	changes := 0
	var retained *float64 // heading of the last qualifying sample

	for i := range samples {
		vel := samples[i].Vel
		if vel.HorizontalLength() < speedThreshold {
			continue
		}

		heading := math.Atan2(vel.Z, vel.X)
		if retained != nil {
			diff := math.Abs(heading - *retained)
			if diff > math.Pi {
				diff = 2*math.Pi - diff
			}
			if diff > headingChangeThreshold {
				changes++
			}
		}
		h := heading
		retained = &h
	}
	return changes
}
