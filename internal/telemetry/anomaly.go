package telemetry

// AnomalyKind identifies one class of behavioral deviation. The set is closed;
// the detection passes are the only producers. The JSON field name stays
// "type" for compatibility with downstream feedback tooling.
type AnomalyKind string

const (
	// AnomalyStuck indicates sustained movement input with near-zero horizontal speed
	AnomalyStuck AnomalyKind = "stuck"
	// AnomalyFalling indicates sustained rapid downward velocity
	AnomalyFalling AnomalyKind = "falling"
	// AnomalyTeleport indicates an implausible single-step position jump
	AnomalyTeleport AnomalyKind = "teleport"
	// AnomalyFloorPhase indicates an apparent pass through collision geometry
	AnomalyFloorPhase AnomalyKind = "floor_phase"
)

// Severity grades how strongly an anomaly suggests a broken build.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Anomaly is one detected behavioral deviation. Time is the timestamp of the
// triggering sample: interval detectors report the interval onset, pairwise
// detectors report the later sample of the pair.
type Anomaly struct {
	Kind        AnomalyKind `json:"type"`
	Time        float64     `json:"time"`
	Description string      `json:"description"`
	Severity    Severity    `json:"severity"`
}
