// Command validate checks an observation CSV without loading it anywhere.
// Each validation check is reported separately, followed by a dry run of
// the full transform.
//
// Usage:
//
//	go run ./cmd/validate -csv data/mock/observations.csv -unit celsius
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/weather-data-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-data-etl/internal/domain"
)

const (
	pass = "\033[32mPASS\033[0m"
	fail = "\033[31mFAIL\033[0m"
)

func main() {
	csvPath := flag.String("csv", "", "path to the observation CSV")
	unit := flag.String("unit", "kelvin", "display unit for the transform dry run")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	os.Exit(run(*csvPath, *unit, os.Stdout))
}

func run(csvPath, unitName string, w io.Writer) int {
	unit, err := domain.ParseTemperatureUnit(unitName)
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	raw, err := csvfile.NewReader(csvPath, logger).Extract(context.Background())
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}

	fmt.Fprintln(w, "=== Weather Observation Validation ===")
	fmt.Fprintf(w, "%s: %d rows, %d columns\n\n", csvPath, raw.Len(), raw.NumCols())

	report := domain.CheckTable(raw)
	failed := 0
	for _, c := range report.Checks {
		status := pass
		if c.Err != nil {
			status = fail
			failed++
		}
		fmt.Fprintf(w, "  %-24s %s\n", c.Name, status)
	}

	out, err := domain.Transform(raw, domain.TransformOptions{Unit: unit})
	transformStatus := pass
	if err != nil {
		transformStatus = fail
		failed++
	}
	fmt.Fprintf(w, "  %-24s %s\n", "transform ("+unit.String()+")", transformStatus)

	for _, c := range report.Checks {
		if c.Err != nil {
			fmt.Fprintf(w, "\n--- %s ---\n  %v\n", c.Name, c.Err)
		}
	}
	if err != nil {
		fmt.Fprintf(w, "\n--- transform ---\n  %v\n", err)
	}

	if failed > 0 {
		fmt.Fprintf(w, "\nValidation FAILED (%d of %d).\n", failed, len(report.Checks)+1)
		return 1
	}
	fmt.Fprintf(w, "\nAll validations passed. %d rows, %d columns after transform.\n", out.Len(), out.NumCols())
	return 0
}
