package telemetry

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/banshee-data/playtest.report/internal/config"
)

// stuckRun builds n samples at the given spacing, all holding move_forward
// with zero velocity. breakAt, when >= 0, raises that sample's horizontal
// speed above the stuck threshold. releaseLast, when true, clears the final
// sample's inputs so the interval closes at stream end.
func stuckRun(n int, spacing float64, breakAt int, releaseLast bool) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = inputSample(float64(i)*spacing, Vec3{}, "move_forward")
	}
	if breakAt >= 0 {
		samples[breakAt].Vel = Vec3{1, 0, 0}
	}
	if releaseLast {
		samples[n-1].Inputs = nil
	}
	return samples
}

func TestDetectStuckEmitsOnBreak(t *testing.T) {
	// Twenty samples at 0.05s spacing; the final sample releases the keys,
	// closing a 0.95s interval that started at t=0.
	samples := stuckRun(20, 0.05, -1, true)

	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1: %v", len(anomalies), anomalies)
	}

	a := anomalies[0]
	if a.Kind != AnomalyStuck {
		t.Errorf("Kind = %v, want stuck", a.Kind)
	}
	if a.Time != 0 {
		t.Errorf("Time = %v, want 0 (interval onset)", a.Time)
	}
	if a.Severity != SeverityHigh {
		t.Errorf("Severity = %v, want high", a.Severity)
	}
	if want := "Player stuck for 0.95s while pressing movement keys"; a.Description != want {
		t.Errorf("Description = %q, want %q", a.Description, want)
	}
}

func TestDetectStuckOpenIntervalNeverEmits(t *testing.T) {
	// Every sample qualifies through the end of the stream, so the interval
	// never closes and nothing is emitted. The true extent is unknown.
	samples := stuckRun(20, 0.05, -1, false)

	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 0 {
		t.Fatalf("got %d anomalies, want 0 for open interval: %v", len(anomalies), anomalies)
	}
}

func TestDetectStuckSubIntervalsIndependent(t *testing.T) {
	// A mid-run speed spike splits the run into two sub-intervals which are
	// evaluated independently.
	t.Run("early break leaves both short or open", func(t *testing.T) {
		// Break at sample 5 (t=0.25): first sub-interval is 0.25s < 0.5s,
		// second stays open at stream end. Nothing is emitted.
		samples := stuckRun(20, 0.05, 5, false)
		anomalies := DetectAnomalies(samples, nil)
		if len(anomalies) != 0 {
			t.Fatalf("got %d anomalies, want 0: %v", len(anomalies), anomalies)
		}
	})

	t.Run("late break emits only first sub-interval", func(t *testing.T) {
		// Break at sample 12 (t=0.60): first sub-interval spans 0.6s and
		// emits; the trailing sub-interval stays open and does not.
		samples := stuckRun(20, 0.05, 12, false)
		anomalies := DetectAnomalies(samples, nil)
		if len(anomalies) != 1 {
			t.Fatalf("got %d anomalies, want 1: %v", len(anomalies), anomalies)
		}
		if anomalies[0].Time != 0 {
			t.Errorf("Time = %v, want 0", anomalies[0].Time)
		}
	})

	t.Run("both sub-intervals long enough", func(t *testing.T) {
		// 31 samples, break at sample 15 (t=0.75), release on the final
		// sample (t=1.50): both sub-intervals exceed 0.5s and emit.
		samples := stuckRun(31, 0.05, 15, true)
		anomalies := DetectAnomalies(samples, nil)
		if len(anomalies) != 2 {
			t.Fatalf("got %d anomalies, want 2: %v", len(anomalies), anomalies)
		}
		if anomalies[0].Time != 0 {
			t.Errorf("first onset = %v, want 0", anomalies[0].Time)
		}
		if math.Abs(anomalies[1].Time-0.8) > tolerance {
			t.Errorf("second onset = %v, want 0.8", anomalies[1].Time)
		}
	})
}

func TestDetectStuckBoundaryDuration(t *testing.T) {
	t.Run("exactly at minimum emits", func(t *testing.T) {
		// Qualifying samples at t=0..0.45, break at t=0.5: elapsed is
		// exactly the 0.5s minimum.
		samples := stuckRun(11, 0.05, -1, true)
		anomalies := DetectAnomalies(samples, nil)
		if len(anomalies) != 1 {
			t.Fatalf("got %d anomalies, want 1", len(anomalies))
		}
		if want := "Player stuck for 0.50s while pressing movement keys"; anomalies[0].Description != want {
			t.Errorf("Description = %q, want %q", anomalies[0].Description, want)
		}
	})

	t.Run("just under minimum stays silent", func(t *testing.T) {
		samples := stuckRun(10, 0.05, -1, true) // closes at 0.45s
		anomalies := DetectAnomalies(samples, nil)
		if len(anomalies) != 0 {
			t.Fatalf("got %d anomalies, want 0: %v", len(anomalies), anomalies)
		}
	})
}

func TestDetectStuckRequiresMovementInput(t *testing.T) {
	// Standing still without held movement keys is idle, not stuck.
	samples := make([]Sample, 20)
	for i := range samples {
		samples[i] = inputSample(float64(i)*0.05, Vec3{}, "interact")
	}
	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 0 {
		t.Fatalf("got %d anomalies, want 0: %v", len(anomalies), anomalies)
	}
}

func TestDetectStuckUsesHorizontalSpeed(t *testing.T) {
	// Rising fast on an elevator while pressing forward: vertical speed is
	// high but horizontal speed is zero, so the player still counts as stuck.
	samples := make([]Sample, 15)
	for i := range samples {
		samples[i] = inputSample(float64(i)*0.05, Vec3{0, 5, 0}, "move_forward")
	}
	samples[14].Inputs = nil

	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 1 || anomalies[0].Kind != AnomalyStuck {
		t.Fatalf("anomalies = %v, want one stuck", anomalies)
	}
}

func fallingRun(n int, spacing, velY float64, recoverLast bool) []Sample {
	samples := make([]Sample, n)
	y := 0.0
	for i := range samples {
		samples[i] = charSample(float64(i)*spacing, Vec3{0, y, 0}, Vec3{0, velY, 0})
		y += velY * spacing
	}
	if recoverLast {
		samples[n-1].Vel = Vec3{}
	}
	return samples
}

func TestDetectFallingEmitsOnRecovery(t *testing.T) {
	// 2.5s of -15 u/s vertical velocity, then recovery.
	samples := fallingRun(51, 0.05, -15, true)

	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1: %v", len(anomalies), anomalies)
	}
	a := anomalies[0]
	if a.Kind != AnomalyFalling {
		t.Errorf("Kind = %v, want falling", a.Kind)
	}
	if a.Time != 0 {
		t.Errorf("Time = %v, want 0 (interval onset)", a.Time)
	}
	if a.Severity != SeverityMedium {
		t.Errorf("Severity = %v, want medium", a.Severity)
	}
	if want := "Player falling rapidly for 2.50s"; a.Description != want {
		t.Errorf("Description = %q, want %q", a.Description, want)
	}
}

func TestDetectFallingOpenIntervalNeverEmits(t *testing.T) {
	samples := fallingRun(51, 0.05, -15, false)
	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 0 {
		t.Fatalf("got %d anomalies, want 0 for open interval: %v", len(anomalies), anomalies)
	}
}

func TestDetectFallingBoundaries(t *testing.T) {
	t.Run("exactly at threshold speed does not qualify", func(t *testing.T) {
		// -10.0 is not below the -10.0 threshold.
		samples := fallingRun(51, 0.05, -10.0, true)
		anomalies := DetectAnomalies(samples, nil)
		if len(anomalies) != 0 {
			t.Fatalf("got %d anomalies, want 0: %v", len(anomalies), anomalies)
		}
	})

	t.Run("exactly minimum duration emits", func(t *testing.T) {
		// Qualifying t=0..1.95, recovery at t=2.0: elapsed exactly 2.0s.
		samples := fallingRun(41, 0.05, -15, true)
		anomalies := DetectAnomalies(samples, nil)
		if len(anomalies) != 1 {
			t.Fatalf("got %d anomalies, want 1: %v", len(anomalies), anomalies)
		}
	})

	t.Run("just under minimum stays silent", func(t *testing.T) {
		samples := fallingRun(40, 0.05, -15, true) // closes at 1.95s
		anomalies := DetectAnomalies(samples, nil)
		if len(anomalies) != 0 {
			t.Fatalf("got %d anomalies, want 0: %v", len(anomalies), anomalies)
		}
	})
}

func TestDetectTeleport(t *testing.T) {
	samples := []Sample{
		charSample(0.0, Vec3{0, 0, 0}, Vec3{}),
		charSample(1.0, Vec3{20, 0, 0}, Vec3{}),
	}

	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1: %v", len(anomalies), anomalies)
	}
	a := anomalies[0]
	if a.Kind != AnomalyTeleport {
		t.Errorf("Kind = %v, want teleport", a.Kind)
	}
	if a.Time != 1.0 {
		t.Errorf("Time = %v, want 1.0 (later sample)", a.Time)
	}
	if a.Severity != SeverityHigh {
		t.Errorf("Severity = %v, want high", a.Severity)
	}
	if want := "Sudden position change of 20.00 units"; a.Description != want {
		t.Errorf("Description = %q, want %q", a.Description, want)
	}
}

func TestDetectTeleportBoundary(t *testing.T) {
	t.Run("exactly at threshold does not emit", func(t *testing.T) {
		samples := []Sample{
			charSample(0.0, Vec3{0, 0, 0}, Vec3{}),
			charSample(0.05, Vec3{10, 0, 0}, Vec3{}),
		}
		if anomalies := DetectAnomalies(samples, nil); len(anomalies) != 0 {
			t.Fatalf("got %v, want none at exactly 10.0 units", anomalies)
		}
	})

	t.Run("just over threshold emits", func(t *testing.T) {
		samples := []Sample{
			charSample(0.0, Vec3{0, 0, 0}, Vec3{}),
			charSample(0.05, Vec3{10.5, 0, 0}, Vec3{}),
		}
		if anomalies := DetectAnomalies(samples, nil); len(anomalies) != 1 {
			t.Fatalf("got %v, want one teleport", anomalies)
		}
	})

	t.Run("zero dt pair still emits", func(t *testing.T) {
		// The check is raw step distance, never normalized by elapsed time.
		samples := []Sample{
			charSample(1.0, Vec3{0, 0, 0}, Vec3{}),
			charSample(1.0, Vec3{0, 0, 30}, Vec3{}),
		}
		if anomalies := DetectAnomalies(samples, nil); len(anomalies) != 1 {
			t.Fatalf("got %v, want one teleport for zero-dt jump", anomalies)
		}
	})
}

func TestDetectFloorPhase(t *testing.T) {
	samples := []Sample{
		floorSample(0.00, Vec3{0, 0, 0}, Vec3{}, true),
		floorSample(0.05, Vec3{0, -1.5, 0}, Vec3{0, -8, 0}, false),
	}

	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1: %v", len(anomalies), anomalies)
	}
	a := anomalies[0]
	if a.Kind != AnomalyFloorPhase {
		t.Errorf("Kind = %v, want floor_phase", a.Kind)
	}
	if a.Time != 0.05 {
		t.Errorf("Time = %v, want 0.05", a.Time)
	}
	if a.Severity != SeverityHigh {
		t.Errorf("Severity = %v, want high", a.Severity)
	}
	if want := "Player may have phased through floor at y=-1.50"; a.Description != want {
		t.Errorf("Description = %q, want %q", a.Description, want)
	}
}

func TestDetectFloorPhaseNegativeCases(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
	}{
		{
			"drop exactly at threshold",
			[]Sample{
				floorSample(0.00, Vec3{0, 0, 0}, Vec3{}, true),
				floorSample(0.05, Vec3{0, -1.0, 0}, Vec3{}, false),
			},
		},
		{
			"still on floor",
			[]Sample{
				floorSample(0.00, Vec3{0, 0, 0}, Vec3{}, true),
				floorSample(0.05, Vec3{0, -2.0, 0}, Vec3{}, true),
			},
		},
		{
			"was already airborne",
			[]Sample{
				floorSample(0.00, Vec3{0, 0, 0}, Vec3{}, false),
				floorSample(0.05, Vec3{0, -2.0, 0}, Vec3{}, false),
			},
		},
		{
			"profile does not report floor",
			[]Sample{
				charSample(0.00, Vec3{0, 0, 0}, Vec3{}),
				charSample(0.05, Vec3{0, -2.0, 0}, Vec3{}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if anomalies := DetectAnomalies(tt.samples, nil); len(anomalies) != 0 {
				t.Fatalf("got %v, want none", anomalies)
			}
		})
	}
}

func TestDetectFloorPhaseSkipsPairsMissingChannel(t *testing.T) {
	// The session reports floor on its first sample, but one mid-stream
	// record lost the channel. Pairs touching that record are skipped
	// instead of treating "missing" as "off floor".
	gap := charSample(0.05, Vec3{0, -2.0, 0}, Vec3{})
	samples := []Sample{
		floorSample(0.00, Vec3{0, 0, 0}, Vec3{}, true),
		gap,
		floorSample(0.10, Vec3{0, -4.0, 0}, Vec3{}, false),
	}

	if anomalies := DetectAnomalies(samples, nil); len(anomalies) != 0 {
		t.Fatalf("got %v, want none across channel gap", anomalies)
	}
}

func TestDetectAnomaliesFewerThanTwoSamples(t *testing.T) {
	anomalies := DetectAnomalies([]Sample{charSample(0, Vec3{}, Vec3{})}, nil)
	if anomalies == nil {
		t.Fatal("DetectAnomalies returned nil, want empty slice")
	}
	if len(anomalies) != 0 {
		t.Fatalf("got %d anomalies, want 0", len(anomalies))
	}
}

func TestDetectAnomaliesOrderContract(t *testing.T) {
	// One event of each kind, arranged so that chronological order differs
	// from detection-pass order: the teleport happens first in time but the
	// stuck and falling results must still precede it in the output.
	var samples []Sample

	// t=0.00-0.10: quiet lead-in, on floor.
	samples = append(samples,
		floorSample(0.00, Vec3{0, 0, 0}, Vec3{}, true),
		floorSample(0.05, Vec3{0, 0, 0}, Vec3{}, true),
	)
	// t=0.10: teleport jump of 50 units, earliest event in the stream.
	samples = append(samples, floorSample(0.10, Vec3{50, 0, 0}, Vec3{}, true))

	// t=2.00-2.60: stuck interval, closed by a key release at 2.60.
	for ti := 2.00; ti < 2.60+1e-9; ti += 0.05 {
		s := floorSample(ti, Vec3{50, 0, 0}, Vec3{}, true)
		if ti < 2.60-1e-9 {
			s.Inputs = []string{"move_forward"}
		}
		samples = append(samples, s)
	}

	// t=4.00-6.50: falling interval, recovery on the last sample. Step
	// drops stay far below the teleport threshold.
	y := 0.0
	for ti := 4.00; ti < 6.50+1e-9; ti += 0.05 {
		vel := Vec3{0, -20, 0}
		if ti > 6.50-1e-9 {
			vel = Vec3{}
		}
		samples = append(samples, floorSample(ti, Vec3{50, y, 0}, vel, true))
		y -= 1.0
	}

	// t=7.00-7.05: floor phase, the last event in time.
	base := y
	samples = append(samples,
		floorSample(7.00, Vec3{50, base, 0}, Vec3{}, true),
		floorSample(7.05, Vec3{50, base - 2.0, 0}, Vec3{0, -5, 0}, false),
	)

	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 4 {
		t.Fatalf("got %d anomalies, want 4: %v", len(anomalies), anomalies)
	}

	wantKinds := []AnomalyKind{AnomalyStuck, AnomalyFalling, AnomalyTeleport, AnomalyFloorPhase}
	for i, want := range wantKinds {
		if anomalies[i].Kind != want {
			t.Errorf("anomalies[%d].Kind = %v, want %v", i, anomalies[i].Kind, want)
		}
	}

	// The output is detection-pass ordered, not time ordered: the teleport
	// fired earliest but sits third.
	if !(anomalies[2].Time < anomalies[0].Time) {
		t.Errorf("expected teleport time %v before stuck time %v",
			anomalies[2].Time, anomalies[0].Time)
	}
}

func TestDetectAnomaliesCustomThresholds(t *testing.T) {
	cfg := &config.AnalysisConfig{}
	raise := 30.0
	cfg.TeleportDistanceThreshold = &raise

	samples := []Sample{
		charSample(0.0, Vec3{0, 0, 0}, Vec3{}),
		charSample(1.0, Vec3{20, 0, 0}, Vec3{}),
	}

	if anomalies := DetectAnomalies(samples, cfg); len(anomalies) != 0 {
		t.Fatalf("got %v, want none under raised threshold", anomalies)
	}
	if anomalies := DetectAnomalies(samples, nil); len(anomalies) != 1 {
		t.Fatalf("default threshold should still flag the jump")
	}
}

func TestStuckDescriptionsCarryDuration(t *testing.T) {
	// The reported duration is measured at the breaking sample.
	samples := stuckRun(25, 0.1, -1, true) // closes at t=2.4, held 2.4s
	anomalies := DetectAnomalies(samples, nil)
	if len(anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1", len(anomalies))
	}
	if !strings.Contains(anomalies[0].Description, fmt.Sprintf("%.2fs", 2.4)) {
		t.Errorf("Description %q missing held duration", anomalies[0].Description)
	}
}
