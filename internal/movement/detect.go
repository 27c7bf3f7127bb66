package movement

import (
	"path/filepath"
)

// TestStep is one recommended input step for exercising a movement type.
type TestStep struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Duration    float64  `json:"duration"`
	Inputs      []string `json:"inputs,omitempty"`
}

// DetectionResult is the classifier's full output for one build directory.
type DetectionResult struct {
	DetectedType       Type                   `json:"detected_type"`
	Confidence         float64                `json:"confidence"`
	Scores             map[Type]float64       `json:"all_scores"`
	RecommendedTests   []TestStep             `json:"recommended_tests"`
	ValidationCriteria map[string]interface{} `json:"validation_criteria"`
}

// DetectDirectory classifies a build directory. player.gd decides the type;
// when main.gd also exists its scores are averaged in for context but cannot
// change the detected type.
func (d *Detector) DetectDirectory(buildDir string) (*DetectionResult, error) {
	result := &DetectionResult{
		DetectedType: TypeUnknown,
		Scores:       map[Type]float64{},
	}

	playerPath := filepath.Join(buildDir, "player.gd")
	if d.fs.Exists(playerPath) {
		detected, confidence, scores, err := d.DetectFile(playerPath)
		if err != nil {
			return nil, err
		}
		result.DetectedType = detected
		result.Confidence = confidence
		result.Scores = scores
	}

	mainPath := filepath.Join(buildDir, "main.gd")
	if d.fs.Exists(mainPath) {
		_, _, mainScores, err := d.DetectFile(mainPath)
		if err != nil {
			return nil, err
		}
		for movementType, score := range mainScores {
			if existing, ok := result.Scores[movementType]; ok {
				result.Scores[movementType] = (existing + score) / 2
			} else {
				result.Scores[movementType] = score
			}
		}
	}

	result.RecommendedTests = RecommendedTests(result.DetectedType)
	result.ValidationCriteria = ValidationCriteria(result.DetectedType)
	return result, nil
}

// RecommendedTests returns the input sequence the harness should drive for a
// movement type. Every sequence opens with a settle step that captures the
// starting position.
func RecommendedTests(movementType Type) []TestStep {
	base := []TestStep{
		{Name: "initial_position", Description: "Capture starting position", Duration: 2.0},
	}

	switch movementType {
	case TypeWalking:
		return append(base,
			TestStep{Name: "move_forward", Description: "Walk forward", Duration: 3.0, Inputs: []string{"move_forward"}},
			TestStep{Name: "move_backward", Description: "Walk backward", Duration: 3.0, Inputs: []string{"move_backward"}},
			TestStep{Name: "move_left", Description: "Strafe left", Duration: 2.0, Inputs: []string{"move_left"}},
			TestStep{Name: "move_right", Description: "Strafe right", Duration: 2.0, Inputs: []string{"move_right"}},
			TestStep{Name: "jump", Description: "Test jump", Duration: 2.0, Inputs: []string{"jump"}},
		)

	case TypeDriving:
		return append(base,
			TestStep{Name: "accelerate", Description: "Press gas", Duration: 3.0, Inputs: []string{"accelerate"}},
			TestStep{Name: "brake", Description: "Press brake", Duration: 2.0, Inputs: []string{"brake"}},
			TestStep{Name: "steer_left", Description: "Turn left", Duration: 2.0, Inputs: []string{"steer_left"}},
			TestStep{Name: "steer_right", Description: "Turn right", Duration: 2.0, Inputs: []string{"steer_right"}},
			TestStep{Name: "reverse", Description: "Reverse", Duration: 2.0, Inputs: []string{"reverse"}},
		)

	case TypeFlying:
		return append(base,
			TestStep{Name: "fly_forward", Description: "Fly forward", Duration: 3.0, Inputs: []string{"move_forward"}},
			TestStep{Name: "ascend", Description: "Fly up", Duration: 2.0, Inputs: []string{"ascend", "jump"}},
			TestStep{Name: "descend", Description: "Fly down", Duration: 2.0, Inputs: []string{"descend", "crouch"}},
			TestStep{Name: "pitch_up", Description: "Pitch up", Duration: 2.0, Inputs: []string{"pitch_up"}},
			TestStep{Name: "roll_left", Description: "Roll left", Duration: 2.0, Inputs: []string{"roll_left"}},
		)

	case TypeSwimming:
		return append(base,
			TestStep{Name: "swim_forward", Description: "Swim forward", Duration: 3.0, Inputs: []string{"move_forward"}},
			TestStep{Name: "swim_up", Description: "Swim up", Duration: 2.0, Inputs: []string{"jump", "ascend"}},
			TestStep{Name: "swim_down", Description: "Swim down", Duration: 2.0, Inputs: []string{"crouch", "descend"}},
			TestStep{Name: "surface", Description: "Surface", Duration: 3.0, Inputs: []string{}},
		)

	case TypePlatformer:
		return append(base,
			TestStep{Name: "move_forward", Description: "Run forward", Duration: 2.0, Inputs: []string{"move_forward"}},
			TestStep{Name: "jump", Description: "Single jump", Duration: 2.0, Inputs: []string{"jump"}},
			TestStep{Name: "double_jump", Description: "Double jump", Duration: 2.0, Inputs: []string{"jump", "jump"}},
			TestStep{Name: "wall_jump", Description: "Wall jump", Duration: 3.0, Inputs: []string{"move_forward", "jump"}},
		)
	}

	return append(base,
		TestStep{Name: "move_forward", Description: "Move forward", Duration: 3.0, Inputs: []string{"move_forward"}},
		TestStep{Name: "move_backward", Description: "Move backward", Duration: 3.0, Inputs: []string{"move_backward"}},
	)
}

// ValidationCriteria returns the pass thresholds the harness applies to a
// session captured under a movement type.
func ValidationCriteria(movementType Type) map[string]interface{} {
	switch movementType {
	case TypeWalking:
		return map[string]interface{}{
			"min_walk_distance":     0.5,
			"min_jump_height":       0.3,
			"require_floor_contact": true,
			"require_gravity":       true,
			"max_air_time":          2.0,
		}

	case TypeDriving:
		return map[string]interface{}{
			"min_acceleration_distance": 2.0,
			"require_wheel_contact":     true,
			"min_turning_angle":         15.0,
			"require_braking":           true,
		}

	case TypeFlying:
		return map[string]interface{}{
			"require_floor_contact": false,
			"require_3d_movement":   true,
			"min_altitude_change":   1.0,
			"allow_sustained_air":   true,
		}

	case TypeSwimming:
		return map[string]interface{}{
			"require_floor_contact": false,
			"require_3d_movement":   true,
			"expect_drag":           true,
			"min_depth_change":      0.5,
		}
	}

	return map[string]interface{}{
		"min_distance":     0.1,
		"require_movement": true,
	}
}
