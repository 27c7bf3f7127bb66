package telemetry

// AnalyzeInputs accumulates how long each input identifier was held across
// the session. For every consecutive pair the elapsed time is credited to
// each input active on the LATER sample of the pair; the asymmetry is
// intentional and matches how the instrumented runtime latches input state
// at the end of a physics tick. Sequences with fewer than two samples, or a
// non-positive total duration, yield an empty map.
func AnalyzeInputs(samples []Sample) map[string]float64 {
	activity := make(map[string]float64)
	if len(samples) < 2 {
		return activity
	}
	if samples[len(samples)-1].T-samples[0].T <= 0 {
		return activity
	}

	for i := 1; i < len(samples); i++ {
		dt := samples[i].T - samples[i-1].T
		for _, inp := range samples[i].Inputs {
			activity[inp] += dt
		}
	}
	return activity
}
