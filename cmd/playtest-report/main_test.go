package main

import (
	"strings"
	"testing"

	"github.com/banshee-data/playtest.report/internal/telemetry"
)

func renderFixture(t *testing.T) *telemetry.Analysis {
	t.Helper()
	samples := []telemetry.Sample{
		{T: 0, Type: "CharacterBody3D", Pos: telemetry.Vec3{}, Vel: telemetry.Vec3{X: 1}},
		{T: 1, Type: "CharacterBody3D", Pos: telemetry.Vec3{X: 5}, Vel: telemetry.Vec3{X: 1}},
	}
	analysis, err := telemetry.Analyze(samples, "session.jsonl", nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return analysis
}

func TestRenderAnalysisModes(t *testing.T) {
	analysis := renderFixture(t)

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default is summary", Config{Units: "ups"}, "Max Speed"},
		{"explicit summary", Config{Summary: true, Units: "ups"}, "Max Speed"},
		{"json", Config{JSON: true}, `"max_speed"`},
		{"anomalies", Config{DetectAnomalies: true}, "No anomalies detected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := renderAnalysis(tt.cfg, analysis)
			if err != nil {
				t.Fatalf("renderAnalysis() error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("renderAnalysis() output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRenderAnalysisSummaryWinsOverJSON(t *testing.T) {
	analysis := renderFixture(t)

	out, err := renderAnalysis(Config{Summary: true, JSON: true, Units: "ups"}, analysis)
	if err != nil {
		t.Fatalf("renderAnalysis() error = %v", err)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("renderAnalysis() emitted JSON despite -summary:\n%s", out)
	}
	if !strings.Contains(out, "Max Speed") {
		t.Errorf("renderAnalysis() output missing summary section:\n%s", out)
	}
}
