package telemetry

import (
	"fmt"

	"github.com/banshee-data/playtest.report/internal/config"
)

// DetectAnomalies runs the four detection passes and returns their
// concatenated results: all stuck anomalies, then falling, then teleport,
// then floor phase. The pass order is part of the output contract; results
// are NOT time-sorted across passes. Consumers that need chronological order
// must sort explicitly.
//
// cfg may be nil, which selects the default thresholds for every pass.
func DetectAnomalies(samples []Sample, cfg *config.AnalysisConfig) []Anomaly {
	anomalies := make([]Anomaly, 0)
	if len(samples) < 2 {
		return anomalies
	}

	anomalies = append(anomalies, detectStuck(samples, cfg)...)
	anomalies = append(anomalies, detectFalling(samples, cfg)...)
	anomalies = append(anomalies, detectTeleports(samples, cfg)...)
	anomalies = append(anomalies, detectFloorPhase(samples, cfg)...)
	return anomalies
}

// detectStuck scans for intervals where a movement input is held while
// horizontal speed stays under the stuck threshold. An interval that lasts at
// least the minimum duration emits one anomaly at the interval onset when it
// breaks. An interval still open at the final sample is never emitted; that
// is contract, not oversight, since its true extent is unknown.
func detectStuck(samples []Sample, cfg *config.AnalysisConfig) []Anomaly {
	speedThreshold := cfg.GetStuckSpeedThreshold()
	minDuration := cfg.GetStuckMinDuration()

	var out []Anomaly
	var start *float64 // onset of the open interval, nil when closed

	for i := range samples {
		s := &samples[i]
		if s.HasMovementInput() && s.Vel.HorizontalLength() < speedThreshold {
			if start == nil {
				t := s.T
				start = &t
			}
			continue
		}

		if start != nil {
			if held := s.T - *start; held >= minDuration {
				out = append(out, Anomaly{
					Kind:        AnomalyStuck,
					Time:        *start,
					Description: fmt.Sprintf("Player stuck for %.2fs while pressing movement keys", held),
					Severity:    SeverityHigh,
				})
			}
			start = nil
		}
	}
	return out
}

// detectFalling scans for intervals of sustained downward velocity beyond the
// fall threshold. Same open-interval rules as detectStuck.
func detectFalling(samples []Sample, cfg *config.AnalysisConfig) []Anomaly {
	velThreshold := cfg.GetFallVelocityThreshold()
	minDuration := cfg.GetFallMinDuration()

	var out []Anomaly
	var start *float64

	for i := range samples {
		s := &samples[i]
		if s.Vel.Y < velThreshold {
			if start == nil {
				t := s.T
				start = &t
			}
			continue
		}

		if start != nil {
			if falling := s.T - *start; falling >= minDuration {
				out = append(out, Anomaly{
					Kind:        AnomalyFalling,
					Time:        *start,
					Description: fmt.Sprintf("Player falling rapidly for %.2fs", falling),
					Severity:    SeverityMedium,
				})
			}
			start = nil
		}
	}
	return out
}

// detectTeleports is stateless: any consecutive pair whose positions are more
// than the teleport threshold apart emits an anomaly at the later sample's
// time. The check is a raw per-step distance, deliberately not normalized by
// dt, so a genuine position discontinuity is caught even across a zero-length
// time step.
func detectTeleports(samples []Sample, cfg *config.AnalysisConfig) []Anomaly {
	threshold := cfg.GetTeleportDistanceThreshold()

	var out []Anomaly
	for i := 1; i < len(samples); i++ {
		distance := samples[i-1].Pos.DistanceTo(samples[i].Pos)
		if distance > threshold {
			out = append(out, Anomaly{
				Kind:        AnomalyTeleport,
				Time:        samples[i].T,
				Description: fmt.Sprintf("Sudden position change of %.2f units", distance),
				Severity:    SeverityHigh,
			})
		}
	}
	return out
}

// detectFloorPhase scans consecutive pairs for on-floor to off-floor
// transitions combined with a vertical drop beyond the phase threshold. The
// pass only runs when the session's capability profile reports the floor
// channel; pairs missing the channel on either side are skipped rather than
// treated as off-floor.
func detectFloorPhase(samples []Sample, cfg *config.AnalysisConfig) []Anomaly {
	if _, ok := samples[0].FloorContact(); !ok {
		return nil
	}
	drop := cfg.GetFloorPhaseDropThreshold()

	var out []Anomaly
	for i := 1; i < len(samples); i++ {
		prevOn, prevOK := samples[i-1].FloorContact()
		currOn, currOK := samples[i].FloorContact()
		if !prevOK || !currOK {
			continue
		}
		if prevOn && !currOn && samples[i].Pos.Y < samples[i-1].Pos.Y-drop {
			out = append(out, Anomaly{
				Kind:        AnomalyFloorPhase,
				Time:        samples[i].T,
				Description: fmt.Sprintf("Player may have phased through floor at y=%.2f", samples[i].Pos.Y),
				Severity:    SeverityHigh,
			})
		}
	}
	return out
}
