package telemetry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/banshee-data/playtest.report/internal/units"
)

// FormatSummary renders the human-readable report. unit selects the display
// unit for speeds ("" or units.UPS leaves them native); distances always stay
// in world units. Conversion happens here at the display edge, never inside
// the analysis, so both renderings share one set of computed values.
func FormatSummary(a *Analysis, unit string) string {
	spd := func(v float64) float64 { return units.ConvertSpeed(v, unit) }
	label := units.Label(unit)

	lines := []string{
		strings.Repeat("=", 60),
		"TELEMETRY ANALYSIS SUMMARY",
		strings.Repeat("=", 60),
		fmt.Sprintf("File: %s", a.FilePath),
		fmt.Sprintf("Character Type: %s", a.CharacterType),
		fmt.Sprintf("Samples: %d", a.SampleCount),
		fmt.Sprintf("Duration: %.2fs", a.Duration),
		"",
		"POSITION",
		fmt.Sprintf("  Start: (%.2f, %.2f, %.2f)", a.Position.Start.X, a.Position.Start.Y, a.Position.Start.Z),
		fmt.Sprintf("  End:   (%.2f, %.2f, %.2f)", a.Position.End.X, a.Position.End.Y, a.Position.End.Z),
		fmt.Sprintf("  Total Distance: %.2f units", a.Position.TotalDistance),
		fmt.Sprintf("  Horizontal Distance: %.2f units", a.Position.HorizontalDistance),
		fmt.Sprintf("  Displacement: %.2f units", a.Position.Displacement),
		"",
		"VELOCITY",
		fmt.Sprintf("  Max Speed: %.2f %s", spd(a.Velocity.MaxSpeed), label),
		fmt.Sprintf("  Avg Speed: %.2f %s", spd(a.Velocity.AvgSpeed), label),
		fmt.Sprintf("  Max Horizontal: %.2f %s", spd(a.Velocity.MaxHorizontalSpeed), label),
		fmt.Sprintf("  Speed P50/P85/P95: %.2f / %.2f / %.2f %s",
			spd(a.Velocity.Percentiles.P50), spd(a.Velocity.Percentiles.P85), spd(a.Velocity.Percentiles.P95), label),
		fmt.Sprintf("  Direction Changes: %d", a.DirectionChanges),
	}

	if a.FloorContact != nil {
		lines = append(lines,
			"",
			"FLOOR CONTACT",
			fmt.Sprintf("  On Floor: %.1f%%", a.FloorContact.Ratio*100),
			fmt.Sprintf("  Time Airborne: %.2fs", a.FloorContact.TimeAirborne),
		)
	}

	if len(a.InputActivity) > 0 {
		lines = append(lines, "", "INPUT ACTIVITY")
		for _, entry := range sortedInputActivity(a.InputActivity) {
			pct := 0.0
			if a.Duration > 0 {
				pct = entry.Seconds / a.Duration * 100
			}
			lines = append(lines, fmt.Sprintf("  %s: %.2fs (%.1f%%)", entry.Input, entry.Seconds, pct))
		}
	}

	if len(a.Anomalies) > 0 {
		lines = append(lines, "", "ANOMALIES DETECTED")
		for _, anomaly := range a.Anomalies {
			lines = append(lines,
				fmt.Sprintf("  [%s] %s at t=%.2fs", strings.ToUpper(string(anomaly.Severity)), anomaly.Kind, anomaly.Time),
				fmt.Sprintf("    %s", anomaly.Description),
			)
		}
	} else {
		lines = append(lines, "", "No anomalies detected")
	}

	lines = append(lines, strings.Repeat("=", 60))
	return strings.Join(lines, "\n")
}

// FormatJSON renders the structured report. Every numeric value mirrors the
// text rendering; speeds are always native u/s here regardless of any display
// unit the summary used.
func FormatJSON(a *Analysis) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// FormatAnomalies renders the anomalies-only listing consumed by the
// build-iterate feedback loop, one line per anomaly in detection order.
func FormatAnomalies(a *Analysis) string {
	if len(a.Anomalies) == 0 {
		return "No anomalies detected"
	}

	lines := make([]string, 0, len(a.Anomalies))
	for _, anomaly := range a.Anomalies {
		lines = append(lines, fmt.Sprintf("[%s] %s at t=%.2fs: %s",
			strings.ToUpper(string(anomaly.Severity)), anomaly.Kind, anomaly.Time, anomaly.Description))
	}
	return strings.Join(lines, "\n")
}

// FormatRawSample renders one sample as a compact record for the raw echo
// mode: timestamp, position, velocity and held inputs only.
func FormatRawSample(s *Sample) ([]byte, error) {
	inputs := s.Inputs
	if inputs == nil {
		inputs = []string{}
	}
	return json.Marshal(struct {
		T      float64  `json:"t"`
		Pos    Vec3     `json:"pos"`
		Vel    Vec3     `json:"vel"`
		Inputs []string `json:"inputs"`
	}{s.T, s.Pos, s.Vel, inputs})
}

type inputActivityEntry struct {
	Input   string
	Seconds float64
}

// sortedInputActivity orders the activity map by descending held time, with
// name as the tie-break so rendering is deterministic.
func sortedInputActivity(activity map[string]float64) []inputActivityEntry {
	entries := make([]inputActivityEntry, 0, len(activity))
	for input, seconds := range activity {
		entries = append(entries, inputActivityEntry{Input: input, Seconds: seconds})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Seconds != entries[j].Seconds {
			return entries[i].Seconds > entries[j].Seconds
		}
		return entries[i].Input < entries[j].Input
	})
	return entries
}
