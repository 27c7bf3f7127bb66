package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SpeedPercentiles summarizes the distribution of per-sample speed
// magnitudes. P85 is the conventional reporting percentile for movement
// tuning; P95 exposes burst behavior that the max alone overstates.
type SpeedPercentiles struct {
	P50    float64 `json:"p50"`
	P85    float64 `json:"p85"`
	P95    float64 `json:"p95"`
	StdDev float64 `json:"stddev"`
}

// computeSpeedPercentiles computes the speed distribution summary. The input
// is copied before sorting so the caller's slice order is preserved.
func computeSpeedPercentiles(speeds []float64) SpeedPercentiles {
	if len(speeds) == 0 {
		return SpeedPercentiles{}
	}

	sorted := make([]float64, len(speeds))
	copy(sorted, speeds)
	sort.Float64s(sorted)

	result := SpeedPercentiles{
		P50: stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P85: stat.Quantile(0.85, stat.Empirical, sorted, nil),
		P95: stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	// Sample stddev is undefined for n < 2 and would poison the JSON
	// rendering with NaN.
	if len(sorted) >= 2 {
		result.StdDev = stat.StdDev(sorted, nil)
	}
	return result
}
