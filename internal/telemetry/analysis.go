// Package telemetry implements offline analysis of movement telemetry
// captured during automated play-test sessions.
//
// A session is a newline-delimited JSON file with one record per physics
// tick. Analysis is a finite batch computation: the parser loads the whole
// sequence, then several independent linear passes compute aggregate movement
// metrics, count significant heading changes, attribute held-input time, and
// scan for behavioral anomalies. Every pass takes the immutable sample
// sequence and its thresholds as explicit parameters; there is no shared
// state between invocations.
package telemetry

import (
	"errors"

	"github.com/banshee-data/playtest.report/internal/config"
)

// ErrNoSamples is returned by Analyze when no valid samples remain after
// parsing. This is the single fatal gate for empty input; the parser itself
// treats an all-dropped file as an empty, non-error result.
var ErrNoSamples = errors.New("no samples to analyze")

// Analysis is the complete result of analyzing one session. It is built once
// by Analyze and never mutated afterwards; both report renderings and the
// session store read from the same value.
type Analysis struct {
	FilePath      string  `json:"file_path"`
	CharacterType string  `json:"character_type"`
	SampleCount   int     `json:"sample_count"`
	Duration      float64 `json:"duration"`

	Position PositionMetrics `json:"position"`
	Velocity VelocityMetrics `json:"velocity"`

	DirectionChanges int                `json:"direction_changes"`
	InputActivity    map[string]float64 `json:"input_activity"`
	Anomalies        []Anomaly          `json:"anomalies"`

	// FloorContact is nil when the session's capability profile does not
	// report the floor channel. Absent is not the same as zero.
	FloorContact *FloorContactMetrics `json:"floor_contact,omitempty"`
}

// PositionMetrics aggregates path geometry over the session.
type PositionMetrics struct {
	Start                  Vec3    `json:"start"`
	End                    Vec3    `json:"end"`
	TotalDistance          float64 `json:"total_distance"`
	HorizontalDistance     float64 `json:"horizontal_distance"`
	Displacement           float64 `json:"displacement"`
	HorizontalDisplacement float64 `json:"horizontal_displacement"`
}

// VelocityMetrics aggregates reported speeds. These read the instrument's
// velocity channel directly rather than re-deriving motion from position
// deltas, so they reflect what the runtime believed, not a numerical
// differentiation.
type VelocityMetrics struct {
	MaxSpeed           float64          `json:"max_speed"`
	AvgSpeed           float64          `json:"avg_speed"`
	MaxHorizontalSpeed float64          `json:"max_horizontal_speed"`
	AvgHorizontalSpeed float64          `json:"avg_horizontal_speed"`
	Percentiles        SpeedPercentiles `json:"percentiles"`
}

// FloorContactMetrics describes ground-contact behavior for profiles that
// report it.
type FloorContactMetrics struct {
	Ratio        float64 `json:"ratio"`
	TimeAirborne float64 `json:"time_airborne"`
}

// Analyze computes the full analysis for one session. The sample sequence
// must be temporally ordered; Analyze trusts the order and neither validates
// nor repairs timestamps. cfg may be nil, which selects default thresholds
// everywhere.
func Analyze(samples []Sample, filePath string, cfg *config.AnalysisConfig) (*Analysis, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	first := &samples[0]
	last := &samples[len(samples)-1]

	analysis := &Analysis{
		FilePath:      filePath,
		CharacterType: first.Type,
		SampleCount:   len(samples),
		Duration:      last.T - first.T,
	}

	// Path geometry over consecutive pairs.
	totalDistance := 0.0
	horizontalDistance := 0.0
	for i := 1; i < len(samples); i++ {
		totalDistance += samples[i-1].Pos.DistanceTo(samples[i].Pos)
		horizontalDistance += samples[i-1].Pos.HorizontalDistanceTo(samples[i].Pos)
	}
	analysis.Position = PositionMetrics{
		Start:                  first.Pos,
		End:                    last.Pos,
		TotalDistance:          totalDistance,
		HorizontalDistance:     horizontalDistance,
		Displacement:           first.Pos.DistanceTo(last.Pos),
		HorizontalDisplacement: first.Pos.HorizontalDistanceTo(last.Pos),
	}

	// Reported speeds.
	speeds := make([]float64, len(samples))
	maxSpeed, sumSpeed := 0.0, 0.0
	maxHorizontal, sumHorizontal := 0.0, 0.0
	for i := range samples {
		speed := samples[i].Vel.Length()
		horizontal := samples[i].Vel.HorizontalLength()
		speeds[i] = speed
		sumSpeed += speed
		sumHorizontal += horizontal
		if speed > maxSpeed {
			maxSpeed = speed
		}
		if horizontal > maxHorizontal {
			maxHorizontal = horizontal
		}
	}
	analysis.Velocity = VelocityMetrics{
		MaxSpeed:           maxSpeed,
		AvgSpeed:           sumSpeed / float64(len(samples)),
		MaxHorizontalSpeed: maxHorizontal,
		AvgHorizontalSpeed: sumHorizontal / float64(len(samples)),
		Percentiles:        computeSpeedPercentiles(speeds),
	}

	// Floor contact applies only when the session's profile reports the
	// channel, keyed off the first sample. The ratio denominator is the
	// full sample count.
	if _, ok := first.FloorContact(); ok {
		onFloor := 0
		for i := range samples {
			if contact, ok := samples[i].FloorContact(); ok && contact {
				onFloor++
			}
		}
		ratio := float64(onFloor) / float64(len(samples))
		analysis.FloorContact = &FloorContactMetrics{
			Ratio:        ratio,
			TimeAirborne: analysis.Duration * (1 - ratio),
		}
	}

	analysis.DirectionChanges = CountDirectionChanges(samples, cfg)
	analysis.Anomalies = DetectAnomalies(samples, cfg)
	analysis.InputActivity = AnalyzeInputs(samples)

	return analysis, nil
}
