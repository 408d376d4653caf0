package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ChicagoDave/gnosis/pkg/analytics"
	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, res := range r.Warnings {
			printResult(w, res)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, res validation.Result) {
	fmt.Fprintf(w, "  [%s] %s\n", res.Level, res.Message)
	if res.Path != "" {
		if res.ActualValue != nil {
			fmt.Fprintf(w, "    -> %s = %v\n", res.Path, res.ActualValue)
		} else {
			fmt.Fprintf(w, "    -> %s\n", res.Path)
		}
	}
	if res.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Fprintf(w, "    * %s\n", s)
	}
}

func printStats(w io.Writer, cfg spec.CityConfig, s *analytics.Stats) {
	title := fmt.Sprintf("City %s (seed %d, %dx%d)", cfg.Name, cfg.Seed, cfg.City.Length, cfg.City.Height)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	rows := []struct {
		label string
		value string
	}{
		{"Buildings", fmt.Sprintf("%d", s.BuildingCount)},
		{"Floors", fmt.Sprintf("%d", s.TotalFloors)},
		{"Rooms", fmt.Sprintf("%d", s.TotalRooms)},
		{"Population", fmt.Sprintf("%d", s.Population)},
		{"Street coverage", fmt.Sprintf("%.1f%%", s.StreetCoverage*100)},
		{"Mean gap", fmt.Sprintf("%.2f", s.MeanGap)},
		{"Tallest", tallest(s)},
		{"Onramps", fmt.Sprintf("%d of %d slots", s.OnrampCount, s.OnrampSlots)},
		{"Mean onramp shift", fmt.Sprintf("%.2f", s.MeanOnrampShift)},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-20s %s\n", row.label+":", row.value)
	}
}

func tallest(s *analytics.Stats) string {
	if s.TallestID == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", s.TallestID, s.TallestHeight)
}
