package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec3 is a 3-component vector in world space. The engine convention keeps Y
// as the vertical axis, so horizontal operations work on the X/Z plane.
// On the wire a vector is a 3-element JSON array, matching the instrumented
// runtime's output format.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Length returns the Euclidean magnitude.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// HorizontalLength returns the magnitude of the X/Z component.
func (v Vec3) HorizontalLength() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

// DistanceTo returns the Euclidean distance to other.
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// HorizontalDistanceTo returns the X/Z plane distance to other.
func (v Vec3) HorizontalDistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// UnmarshalJSON decodes a 3-element JSON number array.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("vector must be a number array: %w", err)
	}
	if len(arr) != 3 {
		return fmt.Errorf("vector must have 3 components, got %d", len(arr))
	}
	v.X, v.Y, v.Z = arr[0], arr[1], arr[2]
	return nil
}

// MarshalJSON encodes the vector as a 3-element JSON array.
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}
