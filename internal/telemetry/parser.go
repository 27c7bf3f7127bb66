package telemetry

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/playtest.report/internal/monitoring"
)

// maxRecordBytes bounds a single telemetry line. Records are normally well
// under 1KB; the margin covers sessions with very long input lists.
const maxRecordBytes = 1024 * 1024

// LoadSamples reads a newline-delimited telemetry file and returns the decoded
// samples in file order. A missing file is fatal and the returned error wraps
// fs.ErrNotExist. Malformed lines are dropped with a warning and never abort
// the load; an empty result is not an error here, the gate for that sits at
// analysis entry.
func LoadSamples(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry file %s: %w", path, err)
	}
	defer f.Close()

	return ReadSamples(f)
}

// ReadSamples decodes newline-delimited records from r, preserving input order
// as temporal order. The parser never sorts or repairs timestamps.
func ReadSamples(r io.Reader) ([]Sample, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)

	var samples []Sample
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		sample, err := decodeSample(line)
		if err != nil {
			monitoring.Logf("Warning: dropping record at line %d: %v", lineNum, err)
			continue
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read telemetry stream: %w", err)
	}

	return samples, nil
}
