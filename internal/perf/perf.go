// Package perf scores a finished test run's performance capture against a
// frame-rate target and suggests optimisations when the target is missed.
// Like the telemetry engine this is strictly batch analysis of a completed
// session; nothing here samples a live process.
package perf

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Metrics is the performance block of a test results capture.
type Metrics struct {
	AvgFPS       float64   `json:"avg_fps"`
	MinFPS       float64   `json:"min_fps"`
	MaxFPS       float64   `json:"max_fps"`
	AvgMemoryMB  float64   `json:"avg_memory_mb"`
	FrameTimesMs []float64 `json:"frame_times_ms,omitempty"`
}

// Results is the top-level shape of a test results file. Only the
// performance block matters here; the rest of the capture passes through
// untouched.
type Results struct {
	Performance *Metrics `json:"performance"`
}

// FrameTimeStats summarizes a per-frame time series in milliseconds.
type FrameTimeStats struct {
	MinMs   float64 `json:"min_ms"`
	MaxMs   float64 `json:"max_ms"`
	AvgMs   float64 `json:"avg_ms"`
	P50Ms   float64 `json:"p50_ms"`
	P95Ms   float64 `json:"p95_ms"`
	P99Ms   float64 `json:"p99_ms"`
	Samples int     `json:"samples"`
}

// Analysis is the profiler's verdict on one capture.
type Analysis struct {
	Status          string          `json:"status"`
	Passed          bool            `json:"passed"`
	Metrics         Metrics         `json:"metrics"`
	TargetFPS       float64         `json:"target_fps"`
	Issues          []string        `json:"issues"`
	Bottlenecks     []string        `json:"bottlenecks"`
	Recommendations []string        `json:"recommendations"`
	Score           float64         `json:"performance_score"`
	FrameTimes      *FrameTimeStats `json:"frame_time_stats,omitempty"`
	NextSteps       []string        `json:"next_steps"`
}

// Profiler scores captures against TargetFPS. The acceptable floor is 80% of
// target; minimum FPS below half the target flags severe drops.
type Profiler struct {
	TargetFPS float64
}

// DefaultTargetFPS is the conventional desktop target.
const DefaultTargetFPS = 60

// highMemoryMB flags excessive memory for a simple test scene; idealMemoryMB
// anchors the memory component of the score.
const (
	highMemoryMB  = 512.0
	idealMemoryMB = 256.0
)

func NewProfiler(targetFPS float64) *Profiler {
	if targetFPS <= 0 {
		targetFPS = DefaultTargetFPS
	}
	return &Profiler{TargetFPS: targetFPS}
}

// AnalyzeFile loads a results JSON file and scores its performance block.
func (p *Profiler) AnalyzeFile(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("results file %s: %w", path, err)
	}

	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}

	return p.Analyze(&results), nil
}

// Analyze scores one capture. A capture without a performance block fails
// with status no_data rather than erroring, so the surrounding loop can
// treat it like any other failed gate.
func (p *Profiler) Analyze(results *Results) *Analysis {
	if results == nil || results.Performance == nil {
		return &Analysis{
			Status:          "no_data",
			Passed:          false,
			TargetFPS:       p.TargetFPS,
			Issues:          []string{"No performance data available"},
			Bottlenecks:     []string{},
			Recommendations: []string{},
			NextSteps:       []string{},
		}
	}

	m := *results.Performance
	acceptableFPS := p.TargetFPS * 0.8

	var issues, bottlenecks []string

	if m.AvgFPS < acceptableFPS {
		issues = append(issues, fmt.Sprintf(
			"Average FPS (%.1f) below acceptable threshold (%.1f)", m.AvgFPS, acceptableFPS))
		bottlenecks = append(bottlenecks, "frame_rate")
	}
	if m.MinFPS < p.TargetFPS*0.5 {
		issues = append(issues, fmt.Sprintf(
			"Minimum FPS (%.1f) indicates severe frame drops", m.MinFPS))
		bottlenecks = append(bottlenecks, "frame_drops")
	}
	if m.AvgMemoryMB > highMemoryMB {
		issues = append(issues, fmt.Sprintf("High memory usage: %.1f MB", m.AvgMemoryMB))
		bottlenecks = append(bottlenecks, "memory")
	}

	analysis := &Analysis{
		Passed:          len(issues) == 0,
		Metrics:         m,
		TargetFPS:       p.TargetFPS,
		Issues:          issues,
		Bottlenecks:     bottlenecks,
		Recommendations: p.recommendations(bottlenecks, &m),
		Score:           p.score(m.AvgFPS, m.MinFPS, m.AvgMemoryMB),
		FrameTimes:      computeFrameTimeStats(m.FrameTimesMs),
	}
	if analysis.Passed {
		analysis.Status = "passed"
	} else {
		analysis.Status = "failed"
	}
	analysis.NextSteps = p.NextSteps(analysis)

	if analysis.Issues == nil {
		analysis.Issues = []string{}
	}
	if analysis.Bottlenecks == nil {
		analysis.Bottlenecks = []string{}
	}

	return analysis
}

func (p *Profiler) recommendations(bottlenecks []string, m *Metrics) []string {
	has := func(name string) bool {
		for _, b := range bottlenecks {
			if b == name {
				return true
			}
		}
		return false
	}

	recs := []string{}

	if has("frame_rate") || has("frame_drops") {
		recs = append(recs,
			"Consider implementing Level of Detail (LOD) system for meshes",
			"Reduce draw calls by batching similar objects",
			"Optimize shader complexity or use simpler materials",
			"Implement frustum culling to avoid rendering off-screen objects",
			"Check for expensive operations in _process() or _physics_process()",
			"Use object pooling to reduce instantiation overhead",
		)
	}

	if has("memory") {
		recs = append(recs,
			"Optimize texture sizes and use compression",
			"Implement texture streaming for large assets",
			"Check for memory leaks in script code",
			"Use resource preloading efficiently",
			"Consider using lower-poly models for distant objects",
		)
	}

	if m.AvgFPS < 30 {
		recs = append(recs,
			"Consider spatial partitioning (octree/quadtree) for collision detection",
			"Switch from per-pixel lighting to lightmaps for static geometry",
			"Implement occlusion culling for complex scenes",
		)
	}

	return recs
}

// score combines average FPS (50%), stability (30%) and memory headroom
// (20%) into a 0..1 grade, rounded to three places.
func (p *Profiler) score(avgFPS, minFPS, avgMemoryMB float64) float64 {
	fpsScore := math.Min(avgFPS/p.TargetFPS, 1.0) * 0.5
	stabilityScore := math.Min(minFPS/(p.TargetFPS*0.8), 1.0) * 0.3

	memoryScore := 0.2
	if avgMemoryMB > idealMemoryMB {
		memoryScore = math.Max(0, 0.2*(1-(avgMemoryMB-idealMemoryMB)/idealMemoryMB))
	}

	total := fpsScore + stabilityScore + memoryScore
	return math.Round(total*1000) / 1000
}

// NextSteps turns an analysis into concrete guidance for the iterate loop.
func (p *Profiler) NextSteps(analysis *Analysis) []string {
	if analysis.Passed {
		return []string{
			"Performance targets met - ready to add complexity",
			"Consider adding more detailed assets or gameplay features",
		}
	}

	switch {
	case analysis.Score < 0.3:
		return []string{
			"Performance severely below target - consider clean slate restart",
			"Simplify scene: reduce geometry, lighting, and effects",
		}
	case analysis.Score < 0.7:
		return []string{
			"Performance needs improvement - apply recommended optimizations",
			"Profile specific bottlenecks with the engine profiler",
		}
	default:
		return []string{
			"Performance close to target - minor optimizations needed",
		}
	}
}

// computeFrameTimeStats summarizes a frame-time series, nil when no series
// was captured. Percentiles use the floor-index convention on the sorted
// copy.
func computeFrameTimeStats(frameTimesMs []float64) *FrameTimeStats {
	if len(frameTimesMs) == 0 {
		return nil
	}

	sorted := make([]float64, len(frameTimesMs))
	copy(sorted, frameTimesMs)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return &FrameTimeStats{
		MinMs:   sorted[0],
		MaxMs:   sorted[len(sorted)-1],
		AvgMs:   sum / float64(len(sorted)),
		P50Ms:   percentile(sorted, 0.50),
		P95Ms:   percentile(sorted, 0.95),
		P99Ms:   percentile(sorted, 0.99),
		Samples: len(sorted),
	}
}

// percentile reads the floor-index percentile from an already-sorted series.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * q)
	return sorted[idx]
}
