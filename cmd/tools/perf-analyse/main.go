// Command perf-analyse scores a captured performance run against a target
// frame rate. It writes the full analysis as JSON and prints a short verdict,
// exiting non-zero when the run fails its target.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/playtest.report/internal/perf"
)

func main() {
	targetFPS := flag.Float64("target-fps", perf.DefaultTargetFPS, "Target frame rate for scoring")
	output := flag.String("output", "", "Write the analysis to this file (default: performance_analysis.json next to the results)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <results.json>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Scores a performance capture: frame rate against target, frame drops,\n")
		fmt.Fprintf(os.Stderr, "memory headroom and frame time percentiles. Exits 1 if the run fails.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s run_results.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -target-fps 30 -output mobile_analysis.json run_results.json\n", os.Args[0])
	}
	flag.Parse()

	resultsFile := flag.Arg(0)
	if resultsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: results file argument is required")
		flag.Usage()
		os.Exit(1)
	}

	analysis, err := perf.NewProfiler(*targetFPS).AnalyzeFile(resultsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outPath := *output
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(resultsFile), "performance_analysis.json")
	}
	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(analysis, outPath)

	if !analysis.Passed {
		os.Exit(1)
	}
}

func printSummary(a *perf.Analysis, outPath string) {
	rule := strings.Repeat("=", 80)
	fmt.Println("\n" + rule)
	fmt.Println("PERFORMANCE ANALYSIS")
	fmt.Println(rule)
	fmt.Printf("Status: %s\n", strings.ToUpper(a.Status))
	fmt.Printf("Performance Score: %.2f/1.00\n", a.Score)
	fmt.Println("\nMetrics:")
	fmt.Printf("  Average FPS: %.1f (target: %.0f)\n", a.Metrics.AvgFPS, a.TargetFPS)
	fmt.Printf("  Min FPS: %.1f\n", a.Metrics.MinFPS)
	fmt.Printf("  Max FPS: %.1f\n", a.Metrics.MaxFPS)
	fmt.Printf("  Memory: %.1f MB\n", a.Metrics.AvgMemoryMB)

	if len(a.Issues) > 0 {
		fmt.Printf("\nIssues (%d):\n", len(a.Issues))
		for _, issue := range a.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}

	if len(a.Recommendations) > 0 {
		recs := a.Recommendations
		if len(recs) > 5 {
			recs = recs[:5]
		}
		fmt.Printf("\nRecommendations (%d):\n", len(a.Recommendations))
		for i, rec := range recs {
			fmt.Printf("  %d. %s\n", i+1, rec)
		}
	}

	if len(a.NextSteps) > 0 {
		fmt.Println("\nNext Steps:")
		for _, step := range a.NextSteps {
			fmt.Printf("  - %s\n", step)
		}
	}

	fmt.Printf("\nDetailed analysis saved to: %s\n", outPath)
	fmt.Println(rule + "\n")
}
