package telemetry

import (
	"strings"
	"testing"
)

func TestDecodeSampleFull(t *testing.T) {
	line := `{"t": 1.5, "type": "VehicleBody3D", "pos": [1, 2, 3], "vel": [4, 5, 6],
		"rot": [0, 1.57, 0], "floor": false, "ang_vel": [0, 0.5, 0],
		"steering": -0.25, "engine_force": 120.0, "brake": 0.0,
		"inputs": ["move_forward", "brake"]}`

	s, err := decodeSample([]byte(strings.ReplaceAll(line, "\n", " ")))
	if err != nil {
		t.Fatalf("decodeSample failed: %v", err)
	}

	if s.T != 1.5 {
		t.Errorf("T = %v, want 1.5", s.T)
	}
	if s.Type != "VehicleBody3D" {
		t.Errorf("Type = %q, want VehicleBody3D", s.Type)
	}
	if s.Pos != (Vec3{1, 2, 3}) {
		t.Errorf("Pos = %+v, want {1 2 3}", s.Pos)
	}
	if s.Vel != (Vec3{4, 5, 6}) {
		t.Errorf("Vel = %+v, want {4 5 6}", s.Vel)
	}
	if s.Floor == nil || *s.Floor != false {
		t.Errorf("Floor = %v, want false (present)", s.Floor)
	}
	if s.AngVel == nil || *s.AngVel != (Vec3{0, 0.5, 0}) {
		t.Errorf("AngVel = %v, want {0 0.5 0}", s.AngVel)
	}
	if s.Steering == nil || *s.Steering != -0.25 {
		t.Errorf("Steering = %v, want -0.25", s.Steering)
	}
	if s.EngineForce == nil || *s.EngineForce != 120.0 {
		t.Errorf("EngineForce = %v, want 120.0", s.EngineForce)
	}
	if s.Brake == nil || *s.Brake != 0.0 {
		t.Errorf("Brake = %v, want 0.0 (present)", s.Brake)
	}
	if len(s.Inputs) != 2 || s.Inputs[0] != "move_forward" {
		t.Errorf("Inputs = %v, want [move_forward brake]", s.Inputs)
	}
}

func TestDecodeSampleOptionalAbsence(t *testing.T) {
	// A minimal record: optional channels must decode as nil, not zero.
	line := `{"t": 0, "type": "RigidBody3D", "pos": [0,0,0], "vel": [0,0,0], "rot": [0,0,0]}`

	s, err := decodeSample([]byte(line))
	if err != nil {
		t.Fatalf("decodeSample failed: %v", err)
	}

	if s.Floor != nil {
		t.Errorf("Floor = %v, want nil", s.Floor)
	}
	if s.AngVel != nil || s.Steering != nil || s.EngineForce != nil || s.Brake != nil {
		t.Error("expected all optional channels nil on minimal record")
	}
	if s.Inputs != nil {
		t.Errorf("Inputs = %v, want nil", s.Inputs)
	}

	if _, ok := s.FloorContact(); ok {
		t.Error("FloorContact() ok = true for profile without floor channel")
	}
}

func TestDecodeSampleMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		line string
		key  string
	}{
		{"missing t", `{"type": "x", "pos": [0,0,0], "vel": [0,0,0], "rot": [0,0,0]}`, "t"},
		{"missing type", `{"t": 0, "pos": [0,0,0], "vel": [0,0,0], "rot": [0,0,0]}`, "type"},
		{"missing pos", `{"t": 0, "type": "x", "vel": [0,0,0], "rot": [0,0,0]}`, "pos"},
		{"missing vel", `{"t": 0, "type": "x", "pos": [0,0,0], "rot": [0,0,0]}`, "vel"},
		{"missing rot", `{"t": 0, "type": "x", "pos": [0,0,0], "vel": [0,0,0]}`, "rot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeSample([]byte(tt.line))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name missing key %q", err, tt.key)
			}
		})
	}
}

func TestDecodeSampleInvalidJSON(t *testing.T) {
	if _, err := decodeSample([]byte(`{"t": 0,`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := decodeSample([]byte(`{"t": 0, "type": "x", "pos": [1,2], "vel": [0,0,0], "rot": [0,0,0]}`)); err == nil {
		t.Error("expected error for short vector")
	}
}

func TestFloorContact(t *testing.T) {
	s := charSample(0, Vec3{}, Vec3{})
	if _, ok := s.FloorContact(); ok {
		t.Error("ok = true without floor channel")
	}

	s.Floor = boolPtr(true)
	if on, ok := s.FloorContact(); !ok || !on {
		t.Errorf("FloorContact() = (%v, %v), want (true, true)", on, ok)
	}

	s.Floor = boolPtr(false)
	if on, ok := s.FloorContact(); !ok || on {
		t.Errorf("FloorContact() = (%v, %v), want (false, true)", on, ok)
	}
}

func TestHasMovementInput(t *testing.T) {
	tests := []struct {
		name     string
		inputs   []string
		expected bool
	}{
		{"no inputs", nil, false},
		{"empty inputs", []string{}, false},
		{"forward", []string{"move_forward"}, true},
		{"backward", []string{"move_backward"}, true},
		{"left", []string{"move_left"}, true},
		{"right", []string{"move_right"}, true},
		{"jump only", []string{"jump"}, false},
		{"mixed", []string{"jump", "move_left"}, true},
		{"non-movement actions", []string{"interact", "attack"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := inputSample(0, Vec3{}, tt.inputs...)
			if got := s.HasMovementInput(); got != tt.expected {
				t.Errorf("HasMovementInput() = %v, want %v", got, tt.expected)
			}
		})
	}
}
