package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
// This is the single source of truth for all default detector thresholds.
const DefaultConfigPath = "config/analysis.defaults.json"

// AnalysisConfig represents the root configuration for telemetry analysis
// thresholds. All fields are pointers so a partial JSON file only overrides
// the thresholds it names; the Get* accessors fall back to defaults for the
// rest. Durations are in seconds of session time (the telemetry timebase),
// distances in world units, speeds in world units per second.
type AnalysisConfig struct {
	// Stuck detector params
	StuckSpeedThreshold *float64 `json:"stuck_speed_threshold,omitempty"`
	StuckMinDurationSec *float64 `json:"stuck_min_duration_sec,omitempty"`

	// Fall detector params
	FallVelocityThreshold *float64 `json:"fall_velocity_threshold,omitempty"`
	FallMinDurationSec    *float64 `json:"fall_min_duration_sec,omitempty"`

	// Teleport detector params
	TeleportDistanceThreshold *float64 `json:"teleport_distance_threshold,omitempty"`

	// Floor phase detector params
	FloorPhaseDropThreshold *float64 `json:"floor_phase_drop_threshold,omitempty"`

	// Direction change counter params
	DirectionSpeedThreshold *float64 `json:"direction_speed_threshold,omitempty"`
}

// Helper to create pointers
func ptrFloat64(v float64) *float64 { return &v }

// EmptyAnalysisConfig returns an AnalysisConfig with all fields set to nil.
// Use LoadAnalysisConfig to load actual values from a file.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// DefaultAnalysisConfig returns an AnalysisConfig with every threshold
// explicitly populated with its default value.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		StuckSpeedThreshold:       ptrFloat64(0.01),
		StuckMinDurationSec:       ptrFloat64(0.5),
		FallVelocityThreshold:     ptrFloat64(-10.0),
		FallMinDurationSec:        ptrFloat64(2.0),
		TeleportDistanceThreshold: ptrFloat64(10.0),
		FloorPhaseDropThreshold:   ptrFloat64(1.0),
		DirectionSpeedThreshold:   ptrFloat64(0.5),
	}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max
// file size. Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *AnalysisConfig) Validate() error {
	if c.StuckSpeedThreshold != nil && *c.StuckSpeedThreshold <= 0 {
		return fmt.Errorf("stuck_speed_threshold must be positive, got %f", *c.StuckSpeedThreshold)
	}
	if c.StuckMinDurationSec != nil && *c.StuckMinDurationSec <= 0 {
		return fmt.Errorf("stuck_min_duration_sec must be positive, got %f", *c.StuckMinDurationSec)
	}

	// A fall threshold at or above zero would flag level flight as falling.
	if c.FallVelocityThreshold != nil && *c.FallVelocityThreshold >= 0 {
		return fmt.Errorf("fall_velocity_threshold must be negative, got %f", *c.FallVelocityThreshold)
	}
	if c.FallMinDurationSec != nil && *c.FallMinDurationSec <= 0 {
		return fmt.Errorf("fall_min_duration_sec must be positive, got %f", *c.FallMinDurationSec)
	}

	if c.TeleportDistanceThreshold != nil && *c.TeleportDistanceThreshold <= 0 {
		return fmt.Errorf("teleport_distance_threshold must be positive, got %f", *c.TeleportDistanceThreshold)
	}
	if c.FloorPhaseDropThreshold != nil && *c.FloorPhaseDropThreshold <= 0 {
		return fmt.Errorf("floor_phase_drop_threshold must be positive, got %f", *c.FloorPhaseDropThreshold)
	}
	if c.DirectionSpeedThreshold != nil && *c.DirectionSpeedThreshold < 0 {
		return fmt.Errorf("direction_speed_threshold must be non-negative, got %f", *c.DirectionSpeedThreshold)
	}

	return nil
}

// GetStuckSpeedThreshold returns the stuck_speed_threshold value or the default.
func (c *AnalysisConfig) GetStuckSpeedThreshold() float64 {
	if c == nil || c.StuckSpeedThreshold == nil {
		return 0.01 // default
	}
	return *c.StuckSpeedThreshold
}

// GetStuckMinDuration returns the stuck_min_duration_sec value or the default.
func (c *AnalysisConfig) GetStuckMinDuration() float64 {
	if c == nil || c.StuckMinDurationSec == nil {
		return 0.5 // default
	}
	return *c.StuckMinDurationSec
}

// GetFallVelocityThreshold returns the fall_velocity_threshold value or the default.
func (c *AnalysisConfig) GetFallVelocityThreshold() float64 {
	if c == nil || c.FallVelocityThreshold == nil {
		return -10.0 // default
	}
	return *c.FallVelocityThreshold
}

// GetFallMinDuration returns the fall_min_duration_sec value or the default.
func (c *AnalysisConfig) GetFallMinDuration() float64 {
	if c == nil || c.FallMinDurationSec == nil {
		return 2.0 // default
	}
	return *c.FallMinDurationSec
}

// GetTeleportDistanceThreshold returns the teleport_distance_threshold value or the default.
func (c *AnalysisConfig) GetTeleportDistanceThreshold() float64 {
	if c == nil || c.TeleportDistanceThreshold == nil {
		return 10.0 // default
	}
	return *c.TeleportDistanceThreshold
}

// GetFloorPhaseDropThreshold returns the floor_phase_drop_threshold value or the default.
func (c *AnalysisConfig) GetFloorPhaseDropThreshold() float64 {
	if c == nil || c.FloorPhaseDropThreshold == nil {
		return 1.0 // default
	}
	return *c.FloorPhaseDropThreshold
}

// GetDirectionSpeedThreshold returns the direction_speed_threshold value or the default.
func (c *AnalysisConfig) GetDirectionSpeedThreshold() float64 {
	if c == nil || c.DirectionSpeedThreshold == nil {
		return 0.5 // default
	}
	return *c.DirectionSpeedThreshold
}
