package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"wlmonitor.org/internal/loader"
	"wlmonitor.org/internal/logging"
)

// generate reads the four upstream CSV files from csvDir and writes the JSON
// snapshot the API server loads at startup.
func generate(csvDir, out string, logger *slog.Logger) error {
	dataset, err := loader.LoadCSVDir(csvDir)
	if err != nil {
		return logging.ReplaceLogFatal(logger, "failed to load csv dataset", err)
	}

	if err := loader.WriteSnapshot(out, dataset); err != nil {
		return logging.ReplaceLogFatal(logger, "failed to write snapshot", err)
	}

	logging.LogOperation(logger, "snapshot_written",
		slog.String("path", out),
		slog.Int("lines", len(dataset.Lines)),
		slog.Int("stop_points", len(dataset.StopPoints)),
		slog.Int("stop_groups", len(dataset.StopGroups)))
	return nil
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("generate-json", flag.ContinueOnError)
	fs.SetOutput(stderr)
	csvDir := fs.String("csv-dir", "data", "Directory containing lines.csv, routes.csv, stopPoints.csv and stopGroups.csv")
	out := fs.String("out", "data/wl-data.json", "Output path for the JSON snapshot")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := logging.NewStructuredLogger(stderr, slog.LevelInfo).
		With(slog.String("component", "generate_json"))

	if err := generate(*csvDir, *out, logger); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
