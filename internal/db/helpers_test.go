package db

import (
	"path/filepath"
	"testing"

	"github.com/banshee-data/playtest.report/internal/telemetry"
)

// newTestDB opens a migrated database in a per-test temp directory.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := NewDB(filepath.Join(t.TempDir(), "playtest_test.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}

func floatPtr(f float64) *float64 { return &f }

// testAnalysis builds a representative analysis with floor contact, two
// anomalies and input activity populated.
func testAnalysis() *telemetry.Analysis {
	return &telemetry.Analysis{
		FilePath:      "session_001.jsonl",
		CharacterType: "CharacterBody3D",
		SampleCount:   120,
		Duration:      6.0,
		Position: telemetry.PositionMetrics{
			Start:                  telemetry.Vec3{X: 0, Y: 1, Z: 0},
			End:                    telemetry.Vec3{X: 10, Y: 1, Z: 5},
			TotalDistance:          14.2,
			HorizontalDistance:     13.8,
			Displacement:           11.18,
			HorizontalDisplacement: 11.18,
		},
		Velocity: telemetry.VelocityMetrics{
			MaxSpeed:           4.5,
			AvgSpeed:           2.3,
			MaxHorizontalSpeed: 4.4,
			AvgHorizontalSpeed: 2.2,
		},
		DirectionChanges: 3,
		InputActivity: map[string]float64{
			"move_forward": 4.5,
			"jump":         0.6,
		},
		Anomalies: []telemetry.Anomaly{
			{
				Kind:        telemetry.AnomalyStuck,
				Time:        1.5,
				Description: "Player stuck for 0.80s while pressing movement keys",
				Severity:    telemetry.SeverityHigh,
			},
			{
				Kind:        telemetry.AnomalyTeleport,
				Time:        3.2,
				Description: "Sudden position change of 15.00 units",
				Severity:    telemetry.SeverityHigh,
			},
		},
		FloorContact: &telemetry.FloorContactMetrics{
			Ratio:        0.9,
			TimeAirborne: 0.6,
		},
	}
}
