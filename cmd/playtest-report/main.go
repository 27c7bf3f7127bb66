// Package main provides the batch telemetry analysis CLI. It loads a
// captured play-test session, computes movement metrics and anomalies, and
// renders the result as a text summary, a JSON report, an anomalies-only
// listing or a raw sample echo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/playtest.report/internal/config"
	"github.com/banshee-data/playtest.report/internal/db"
	"github.com/banshee-data/playtest.report/internal/fsutil"
	"github.com/banshee-data/playtest.report/internal/monitoring"
	"github.com/banshee-data/playtest.report/internal/security"
	"github.com/banshee-data/playtest.report/internal/telemetry"
	"github.com/banshee-data/playtest.report/internal/units"
	"github.com/banshee-data/playtest.report/internal/version"
)

// Config holds the parsed command line for one analysis run.
type Config struct {
	TelemetryFile   string
	Summary         bool
	JSON            bool
	DetectAnomalies bool
	RawSamples      bool
	Limit           int
	ConfigPath      string
	Units           string
	DBPath          string
	OutputDir       string
	Quiet           bool
	ShowVersion     bool
}

func main() {
	// The migrate subcommand has its own argument shape and bypasses the
	// analysis flags entirely.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(os.Args[2:])
		return
	}

	cfg := parseFlags()
	os.Exit(run(cfg))
}

func parseFlags() Config {
	cfg := Config{}

	flag.BoolVar(&cfg.Summary, "summary", false, "Print the human-readable summary (the default; overrides other modes)")
	flag.BoolVar(&cfg.JSON, "json", false, "Print the structured JSON report")
	flag.BoolVar(&cfg.DetectAnomalies, "detect-anomalies", false, "Print only the detected anomalies")
	flag.BoolVar(&cfg.RawSamples, "raw-samples", false, "Echo the parsed samples as compact records")
	flag.IntVar(&cfg.Limit, "limit", 0, "Analyze only the first N samples (0 = all)")
	flag.StringVar(&cfg.ConfigPath, "config", "", "Path to a detector threshold config JSON (default: built-in thresholds)")
	flag.StringVar(&cfg.Units, "units", units.UPS, "Display units for speeds in the summary: ups, mps, mph, kmph, kph")
	flag.StringVar(&cfg.DBPath, "db", "", "Persist the analysis to this SQLite database")
	flag.StringVar(&cfg.OutputDir, "output", "", "Write a <base>_analysis.json export into this directory")
	flag.BoolVar(&cfg.Quiet, "quiet", false, "Suppress diagnostic logging (parse warnings etc.)")
	flag.BoolVar(&cfg.Quiet, "q", false, "Suppress diagnostic logging (alias for -quiet)")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <telemetry.jsonl>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Analyzes movement telemetry captured during an automated play-test session:\n")
		fmt.Fprintf(os.Stderr, "  1. Parse newline-delimited JSON samples (malformed lines are dropped)\n")
		fmt.Fprintf(os.Stderr, "  2. Compute distance, displacement, speed and floor-contact metrics\n")
		fmt.Fprintf(os.Stderr, "  3. Scan for anomalies (stuck, falling, teleport, floor phase)\n")
		fmt.Fprintf(os.Stderr, "  4. Attribute held-input time per action\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSubcommands:\n")
		fmt.Fprintf(os.Stderr, "  migrate <up|down|status|version N|force N|baseline N> -db path\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s session.jsonl\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -json session.jsonl\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -detect-anomalies -config thresholds.json session.jsonl\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -db playtest.db -output ./reports session.jsonl\n", os.Args[0])
	}

	flag.Parse()
	cfg.TelemetryFile = flag.Arg(0)
	return cfg
}

func run(cfg Config) int {
	if cfg.ShowVersion {
		fmt.Printf("playtest-report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return 0
	}

	if cfg.Quiet {
		monitoring.SetLogger(monitoring.Discard)
	}

	if cfg.TelemetryFile == "" {
		fmt.Fprintln(os.Stderr, "Error: telemetry file argument is required")
		flag.Usage()
		return 1
	}

	if !units.IsValid(cfg.Units) {
		fmt.Fprintf(os.Stderr, "Error: invalid units %q (valid: %s)\n", cfg.Units, units.GetValidUnitsString())
		return 1
	}

	var analysisCfg *config.AnalysisConfig
	if cfg.ConfigPath != "" {
		loaded, err := config.LoadAnalysisConfig(cfg.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		analysisCfg = loaded
	}

	samples, err := telemetry.LoadSamples(cfg.TelemetryFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: telemetry file not found: %s\n", cfg.TelemetryFile)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}

	if cfg.Limit > 0 && len(samples) > cfg.Limit {
		samples = samples[:cfg.Limit]
	}

	if cfg.RawSamples {
		return echoRawSamples(samples)
	}

	analysis, err := telemetry.Analyze(samples, cfg.TelemetryFile, analysisCfg)
	if err != nil {
		if errors.Is(err, telemetry.ErrNoSamples) {
			fmt.Fprintf(os.Stderr, "Error: no valid samples in %s\n", cfg.TelemetryFile)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}

	out, err := renderAnalysis(cfg, analysis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(out)

	if cfg.DBPath != "" {
		if err := persistAnalysis(cfg.DBPath, cfg.TelemetryFile, analysis); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if cfg.OutputDir != "" {
		if err := exportAnalysis(fsutil.OSFileSystem{}, cfg.OutputDir, cfg.TelemetryFile, analysis); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	return 0
}

// renderAnalysis picks the output mode. An explicit -summary wins over the
// other mode flags; with nothing set the summary is also the default.
func renderAnalysis(cfg Config, analysis *telemetry.Analysis) (string, error) {
	switch {
	case cfg.Summary:
		return telemetry.FormatSummary(analysis, cfg.Units), nil
	case cfg.JSON:
		out, err := telemetry.FormatJSON(analysis)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case cfg.DetectAnomalies:
		return telemetry.FormatAnomalies(analysis), nil
	default:
		return telemetry.FormatSummary(analysis, cfg.Units), nil
	}
}

func echoRawSamples(samples []telemetry.Sample) int {
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no valid samples to echo")
		return 1
	}
	for i := range samples {
		line, err := telemetry.FormatRawSample(&samples[i])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(line))
	}
	return 0
}

func persistAnalysis(dbPath, sourceFile string, analysis *telemetry.Analysis) error {
	database, err := db.NewDB(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	sessionID, err := database.SaveAnalysis(context.Background(), sourceFile, analysis)
	if err != nil {
		return err
	}
	monitoring.Logf("saved analysis as session %s", sessionID)
	return nil
}

// exportAnalysis writes the JSON report next to other run artifacts as
// <telemetry base>_analysis.json. The joined path is validated against the
// output directory because the base name comes straight from user input.
func exportAnalysis(fsys fsutil.FileSystem, outputDir, telemetryFile string, analysis *telemetry.Analysis) error {
	if err := fsys.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	base := security.SanitizeFilename(strings.TrimSuffix(filepath.Base(telemetryFile), filepath.Ext(telemetryFile)))
	outPath := filepath.Join(outputDir, base+"_analysis.json")
	if err := security.ValidatePathWithinDirectory(outPath, outputDir); err != nil {
		return fmt.Errorf("refusing export path: %w", err)
	}

	out, err := telemetry.FormatJSON(analysis)
	if err != nil {
		return err
	}
	if err := fsys.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	monitoring.Logf("exported analysis to %s", outPath)
	return nil
}

// runMigrate parses `migrate <action...> [-db path]` and dispatches to the
// store's migration runner.
func runMigrate(args []string) {
	flags := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := flags.String("db", "playtest.db", "Path to the session database")

	// Action words precede the flags: `migrate force 2 -db playtest.db`.
	var action []string
	rest := args
	for len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		action = append(action, rest[0])
		rest = rest[1:]
	}
	if err := flags.Parse(rest); err != nil {
		os.Exit(1)
	}

	db.RunMigrateCommand(action, *dbPath)
}
