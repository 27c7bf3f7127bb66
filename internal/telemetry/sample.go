package telemetry

import (
	"encoding/json"
	"fmt"
)

// movementInputs is the fixed set of locomotion action identifiers. Held
// movement keys combined with no resulting motion is what the stuck detector
// keys on.
var movementInputs = map[string]struct{}{
	"move_forward":  {},
	"move_backward": {},
	"move_left":     {},
	"move_right":    {},
}

// Sample is one decoded telemetry record: the observed state of the player
// body at a single physics tick. Capability-dependent channels are pointers;
// nil means the body's profile does not report that channel, which is distinct
// from a reported zero value. Samples are immutable once parsed.
type Sample struct {
	T    float64 `json:"t"`
	Type string  `json:"type"`
	Pos  Vec3    `json:"pos"`
	Vel  Vec3    `json:"vel"`
	Rot  Vec3    `json:"rot"`

	Floor       *bool    `json:"floor,omitempty"`
	AngVel      *Vec3    `json:"ang_vel,omitempty"`
	Steering    *float64 `json:"steering,omitempty"`
	EngineForce *float64 `json:"engine_force,omitempty"`
	Brake       *float64 `json:"brake,omitempty"`
	Inputs      []string `json:"inputs,omitempty"`
}

// FloorContact reports the ground-contact state. ok is false when this
// sample's capability profile does not report the floor channel; callers must
// check ok rather than defaulting to "not on floor".
func (s *Sample) FloorContact() (onFloor, ok bool) {
	if s.Floor == nil {
		return false, false
	}
	return *s.Floor, true
}

// HasMovementInput reports whether any of the four locomotion actions is held.
func (s *Sample) HasMovementInput() bool {
	for _, inp := range s.Inputs {
		if _, ok := movementInputs[inp]; ok {
			return true
		}
	}
	return false
}

// rawRecord shadows Sample with pointer-typed required fields so a missing
// key is distinguishable from a zero value during decoding.
type rawRecord struct {
	T    *float64 `json:"t"`
	Type *string  `json:"type"`
	Pos  *Vec3    `json:"pos"`
	Vel  *Vec3    `json:"vel"`
	Rot  *Vec3    `json:"rot"`

	Floor       *bool    `json:"floor"`
	AngVel      *Vec3    `json:"ang_vel"`
	Steering    *float64 `json:"steering"`
	EngineForce *float64 `json:"engine_force"`
	Brake       *float64 `json:"brake"`
	Inputs      []string `json:"inputs"`
}

// decodeSample parses one record line. It fails on invalid JSON or when a
// required key is absent; optional channels pass through as present or nil.
func decodeSample(line []byte) (Sample, error) {
	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return Sample{}, fmt.Errorf("invalid JSON: %w", err)
	}

	required := []struct {
		key string
		ok  bool
	}{
		{"t", raw.T != nil},
		{"type", raw.Type != nil},
		{"pos", raw.Pos != nil},
		{"vel", raw.Vel != nil},
		{"rot", raw.Rot != nil},
	}
	for _, r := range required {
		if !r.ok {
			return Sample{}, fmt.Errorf("missing required key %q", r.key)
		}
	}

	return Sample{
		T:           *raw.T,
		Type:        *raw.Type,
		Pos:         *raw.Pos,
		Vel:         *raw.Vel,
		Rot:         *raw.Rot,
		Floor:       raw.Floor,
		AngVel:      raw.AngVel,
		Steering:    raw.Steering,
		EngineForce: raw.EngineForce,
		Brake:       raw.Brake,
		Inputs:      raw.Inputs,
	}, nil
}
