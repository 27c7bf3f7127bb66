// Package movement classifies a game's locomotion style by scoring its
// player scripts against weighted source-code pattern tables. The classifier
// is stateless text scoring, no sequential analysis; it exists so the test
// harness can pick input sequences and validation criteria that match how
// the game actually moves.
package movement

import (
	"fmt"
	"regexp"

	"github.com/banshee-data/playtest.report/internal/fsutil"
)

// Type is the detected locomotion style of the player body.
type Type string

const (
	TypeUnknown     Type = "unknown"
	TypeWalking     Type = "walking"
	TypeDriving     Type = "driving"
	TypeFlying      Type = "flying"
	TypeSwimming    Type = "swimming"
	TypePlatformer  Type = "platformer"
	TypeTopDown     Type = "top_down"
	TypeFirstPerson Type = "first_person"
	TypeThirdPerson Type = "third_person"
)

// Pattern is one scored signal in a movement type's table. A pattern counts
// when any of its expressions matches; a required pattern that misses zeroes
// the whole type's score.
type Pattern struct {
	Name        string
	Expressions []string
	Weight      float64
	Required    bool
}

var walkingPatterns = []Pattern{
	{Name: "character_body", Expressions: []string{`CharacterBody3D`, `extends CharacterBody3D`}, Weight: 0.3, Required: true},
	{Name: "gravity", Expressions: []string{`gravity`, `GRAVITY`, `get_gravity`}, Weight: 0.2},
	{Name: "floor_check", Expressions: []string{`is_on_floor\s*\(\)`, `is_on_floor`}, Weight: 0.3},
	{Name: "jump", Expressions: []string{`jump`, `JUMP`, `velocity\.y\s*=`}, Weight: 0.2},
	{Name: "walk_run", Expressions: []string{`WALK_SPEED`, `RUN_SPEED`, `move_speed`, `SPEED`}, Weight: 0.1},
}

var drivingPatterns = []Pattern{
	{Name: "vehicle_body", Expressions: []string{`VehicleBody3D`, `extends VehicleBody3D`}, Weight: 0.4, Required: true},
	{Name: "steering", Expressions: []string{`steering`, `steer`, `turn_input`}, Weight: 0.3},
	{Name: "engine", Expressions: []string{`engine_force`, `throttle`, `acceleration`}, Weight: 0.2},
	{Name: "wheel", Expressions: []string{`VehicleWheel`, `wheel`, `tire`}, Weight: 0.1},
	{Name: "brake", Expressions: []string{`brake`, `handbrake`}, Weight: 0.1},
}

var flyingPatterns = []Pattern{
	{Name: "no_gravity", Expressions: []string{`gravity\s*=\s*0`, `gravity\s*=\s*false`, `# no gravity`}, Weight: 0.2},
	{Name: "ascend_descend", Expressions: []string{`ascend`, `descend`, `altitude`, `height_control`}, Weight: 0.3},
	{Name: "pitch_roll", Expressions: []string{`pitch`, `roll`, `yaw`, `bank`}, Weight: 0.3},
	{Name: "thrust", Expressions: []string{`thrust`, `lift`, `flight`}, Weight: 0.2},
	{Name: "airplane", Expressions: []string{`airplane`, `aircraft`, `plane`, `helicopter`}, Weight: 0.2},
}

var swimmingPatterns = []Pattern{
	{Name: "buoyancy", Expressions: []string{`buoyancy`, `float`, `sink`}, Weight: 0.3},
	{Name: "drag", Expressions: []string{`water_drag`, `drag`, `resistance`}, Weight: 0.2},
	{Name: "water", Expressions: []string{`water`, `underwater`, `swim`, `dive`}, Weight: 0.3},
	{Name: "oxygen", Expressions: []string{`oxygen`, `breath`, `air_supply`}, Weight: 0.1},
	{Name: "stroke", Expressions: []string{`stroke`, `paddle`, `kick`}, Weight: 0.1},
}

var platformerPatterns = []Pattern{
	{Name: "double_jump", Expressions: []string{`double_jump`, `can_double_jump`, `air_jump`}, Weight: 0.3},
	{Name: "wall_jump", Expressions: []string{`wall_jump`, `wall_slide`, `is_on_wall`}, Weight: 0.3},
	{Name: "coyote_time", Expressions: []string{`coyote`, `jump_buffer`, `late_jump`}, Weight: 0.2},
	{Name: "dash", Expressions: []string{`dash`, `air_dash`}, Weight: 0.2},
}

var topDownPatterns = []Pattern{
	{Name: "no_y_movement", Expressions: []string{`velocity\.y\s*=\s*0`, `# 2D movement`}, Weight: 0.2},
	{Name: "look_at_mouse", Expressions: []string{`look_at.*mouse`, `rotate.*cursor`, `aim_at_mouse`}, Weight: 0.3},
	{Name: "twin_stick", Expressions: []string{`twin.?stick`, `aim_direction`}, Weight: 0.3},
	{Name: "isometric", Expressions: []string{`isometric`, `iso_`}, Weight: 0.2},
}

var firstPersonPatterns = []Pattern{
	{Name: "mouse_look", Expressions: []string{`mouse_motion`, `camera.*rotate`, `look_sensitivity`}, Weight: 0.3},
	{Name: "head_bob", Expressions: []string{`head_bob`, `headbob`, `camera_bob`}, Weight: 0.2},
	{Name: "first_person", Expressions: []string{`first.?person`, `fps_camera`, `FPS`}, Weight: 0.3},
	{Name: "crouch", Expressions: []string{`crouch`, `CROUCH`, `is_crouching`}, Weight: 0.1},
}

var thirdPersonPatterns = []Pattern{
	{Name: "camera_arm", Expressions: []string{`SpringArm`, `camera_arm`, `camera_pivot`}, Weight: 0.3},
	{Name: "orbit_camera", Expressions: []string{`orbit`, `follow_camera`, `chase_camera`}, Weight: 0.3},
	{Name: "third_person", Expressions: []string{`third.?person`, `tps_camera`, `TPS`}, Weight: 0.3},
	{Name: "aim_offset", Expressions: []string{`aim_offset`, `camera_offset`}, Weight: 0.1},
}

// compiledPattern pairs a pattern with its compile-once case-insensitive
// expressions.
type compiledPattern struct {
	Pattern
	regexps []*regexp.Regexp
}

// Detector scores script sources against the pattern tables. Construct once
// and reuse; compilation happens at construction.
type Detector struct {
	fs       fsutil.FileSystem
	patterns map[Type][]compiledPattern
}

// NewDetector builds a detector reading from the real filesystem.
func NewDetector() *Detector {
	return NewDetectorFS(fsutil.OSFileSystem{})
}

// NewDetectorFS builds a detector over the provided filesystem, which lets
// tests run against fsutil.MemoryFileSystem.
func NewDetectorFS(fsys fsutil.FileSystem) *Detector {
	tables := map[Type][]Pattern{
		TypeWalking:     walkingPatterns,
		TypeDriving:     drivingPatterns,
		TypeFlying:      flyingPatterns,
		TypeSwimming:    swimmingPatterns,
		TypePlatformer:  platformerPatterns,
		TypeTopDown:     topDownPatterns,
		TypeFirstPerson: firstPersonPatterns,
		TypeThirdPerson: thirdPersonPatterns,
	}

	compiled := make(map[Type][]compiledPattern, len(tables))
	for movementType, patterns := range tables {
		cps := make([]compiledPattern, 0, len(patterns))
		for _, p := range patterns {
			cp := compiledPattern{Pattern: p}
			for _, expr := range p.Expressions {
				cp.regexps = append(cp.regexps, regexp.MustCompile(`(?i)`+expr))
			}
			cps = append(cps, cp)
		}
		compiled[movementType] = cps
	}

	return &Detector{fs: fsys, patterns: compiled}
}

// AnalyzeSource scores source content against every movement type's table.
// Scores are capped at 1.0; a type whose required pattern is absent scores 0.
func (d *Detector) AnalyzeSource(source string) map[Type]float64 {
	scores := make(map[Type]float64, len(d.patterns))

	for movementType, patterns := range d.patterns {
		score := 0.0
		requiredFound := true

		for _, cp := range patterns {
			found := false
			for _, re := range cp.regexps {
				if re.MatchString(source) {
					found = true
					break
				}
			}
			if found {
				score += cp.Weight
			} else if cp.Required {
				requiredFound = false
			}
		}

		if !requiredFound {
			score = 0.0
		}
		if score > 1.0 {
			score = 1.0
		}
		scores[movementType] = score
	}

	return scores
}

// DetectFile scores one script file and returns the best type, its
// confidence and the full score table.
func (d *Detector) DetectFile(path string) (Type, float64, map[Type]float64, error) {
	content, err := d.fs.ReadFile(path)
	if err != nil {
		return TypeUnknown, 0, nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}

	scores := d.AnalyzeSource(string(content))
	best, confidence := bestScore(scores)
	return best, confidence, scores, nil
}

// bestScore picks the highest-scoring type. A zero best leaves TypeUnknown.
func bestScore(scores map[Type]float64) (Type, float64) {
	best := TypeUnknown
	bestScore := 0.0
	// Walk in a fixed order so ties resolve deterministically.
	for _, movementType := range []Type{
		TypeWalking, TypeDriving, TypeFlying, TypeSwimming,
		TypePlatformer, TypeTopDown, TypeFirstPerson, TypeThirdPerson,
	} {
		if score := scores[movementType]; score > bestScore {
			bestScore = score
			best = movementType
		}
	}
	return best, bestScore
}
