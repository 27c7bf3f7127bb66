package telemetry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/playtest.report/internal/monitoring"
)

func writeTelemetryFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "telemetry.jsonl")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write telemetry file: %v", err)
	}
	return path
}

func TestLoadSamplesOrderPreserved(t *testing.T) {
	path := writeTelemetryFile(t,
		`{"t": 0.0, "type": "CharacterBody3D", "pos": [0,0,0], "vel": [0,0,0], "rot": [0,0,0]}`,
		`{"t": 0.05, "type": "CharacterBody3D", "pos": [0.1,0,0], "vel": [2,0,0], "rot": [0,0,0]}`,
		`{"t": 0.1, "type": "CharacterBody3D", "pos": [0.2,0,0], "vel": [2,0,0], "rot": [0,0,0]}`,
	)

	samples, err := LoadSamples(path)
	if err != nil {
		t.Fatalf("LoadSamples failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].T <= samples[i-1].T {
			t.Errorf("sample order broken at %d: %v after %v", i, samples[i].T, samples[i-1].T)
		}
	}
}

func TestLoadSamplesDropsMalformedLines(t *testing.T) {
	original := monitoring.Logf
	t.Cleanup(func() { monitoring.SetLogger(original) })

	var warnings []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, v...))
	})

	path := writeTelemetryFile(t,
		`{"t": 0.0, "type": "CharacterBody3D", "pos": [0,0,0], "vel": [0,0,0], "rot": [0,0,0]}`,
		`{not json at all`,
		``,
		`{"t": 0.1, "type": "CharacterBody3D", "pos": [1,0,0], "vel": [0,0,0], "rot": [0,0,0]}`,
		`{"type": "CharacterBody3D", "pos": [9,9,9], "vel": [0,0,0], "rot": [0,0,0]}`,
		`{"t": 0.2, "type": "CharacterBody3D", "pos": [2,0,0], "vel": [0,0,0], "rot": [0,0,0]}`,
	)

	samples, err := LoadSamples(path)
	if err != nil {
		t.Fatalf("LoadSamples failed: %v", err)
	}

	// Three good lines survive; the bad JSON and the missing-t line are
	// dropped, the blank line is skipped silently.
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	if samples[1].Pos.X != 1 || samples[2].Pos.X != 2 {
		t.Errorf("surviving samples out of order: %+v", samples)
	}

	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "line 2") {
		t.Errorf("first warning %q does not name line 2", warnings[0])
	}
	if !strings.Contains(warnings[1], "line 5") {
		t.Errorf("second warning %q does not name line 5", warnings[1])
	}
}

func TestLoadSamplesAllDroppedIsEmptyNotError(t *testing.T) {
	original := monitoring.Logf
	monitoring.SetLogger(monitoring.Discard)
	t.Cleanup(func() { monitoring.SetLogger(original) })

	path := writeTelemetryFile(t, `garbage`, `more garbage`)

	samples, err := LoadSamples(path)
	if err != nil {
		t.Fatalf("LoadSamples failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("got %d samples, want 0", len(samples))
	}
}

func TestLoadSamplesMissingFile(t *testing.T) {
	_, err := LoadSamples(filepath.Join(t.TempDir(), "does-not-exist.jsonl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not wrap fs.ErrNotExist", err)
	}
}

func TestReadSamplesLongLine(t *testing.T) {
	// A record well past the default bufio token size must still decode.
	inputs := make([]string, 0, 20000)
	for i := 0; i < 20000; i++ {
		inputs = append(inputs, fmt.Sprintf("\"action_%d\"", i))
	}
	line := fmt.Sprintf(`{"t": 0, "type": "CharacterBody3D", "pos": [0,0,0], "vel": [0,0,0], "rot": [0,0,0], "inputs": [%s]}`,
		strings.Join(inputs, ","))

	samples, err := ReadSamples(strings.NewReader(line))
	if err != nil {
		t.Fatalf("ReadSamples failed: %v", err)
	}
	if len(samples) != 1 || len(samples[0].Inputs) != 20000 {
		t.Errorf("long record not decoded: %d samples", len(samples))
	}
}
