package telemetry

// Shared fixture builders for the package tests.

func boolPtr(b bool) *bool { return &b }

// charSample builds a ground-character sample with no optional channels.
func charSample(t float64, pos, vel Vec3) Sample {
	return Sample{T: t, Type: "CharacterBody3D", Pos: pos, Vel: vel}
}

// floorSample builds a ground-character sample with the floor channel set.
func floorSample(t float64, pos, vel Vec3, onFloor bool) Sample {
	s := charSample(t, pos, vel)
	s.Floor = boolPtr(onFloor)
	return s
}

// inputSample builds a stationary sample holding the given inputs.
func inputSample(t float64, vel Vec3, inputs ...string) Sample {
	s := charSample(t, Vec3{}, vel)
	s.Inputs = inputs
	return s
}
