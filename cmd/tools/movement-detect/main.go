// Command movement-detect classifies the movement style of a game build by
// scanning its player and main scripts, then emits the detected type together
// with a recommended test plan and pass criteria as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/banshee-data/playtest.report/internal/movement"
)

func main() {
	output := flag.String("output", "", "Write results to this file instead of stdout")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <build-dir>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Scans <build-dir>/player.gd (and main.gd if present) for movement\n")
		fmt.Fprintf(os.Stderr, "patterns and prints the classification with recommended test steps.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./builds/my-game\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -output detection.json ./builds/my-game\n", os.Args[0])
	}
	flag.Parse()

	buildDir := flag.Arg(0)
	if buildDir == "" {
		fmt.Fprintln(os.Stderr, "Error: build directory argument is required")
		flag.Usage()
		os.Exit(1)
	}

	result, err := movement.NewDetector().DetectDirectory(buildDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Results saved to: %s\n", *output)
		return
	}
	fmt.Println(string(out))
}
