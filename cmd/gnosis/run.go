package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ChicagoDave/gnosis/pkg/analytics"
	"github.com/ChicagoDave/gnosis/pkg/city"
	"github.com/ChicagoDave/gnosis/pkg/scene2d"
	"github.com/ChicagoDave/gnosis/pkg/spec"
)

// loadCity loads the project and builds the selected city.
func loadCity(projectPath string, flags cityFlags) (*spec.Project, *city.Layout, error) {
	project, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}

	var (
		cfg spec.CityConfig
		ok  bool
	)
	if flags.city != "" {
		cfg, ok = project.City(flags.city)
	} else {
		cfg, ok = project.Initial()
	}
	if !ok {
		return nil, nil, fmt.Errorf("city %q not found in %s", flags.city, projectPath)
	}

	opts := []city.Option{city.WithLogger(slog.Default())}
	if flags.seedSet {
		opts = append(opts, city.WithSeed(flags.seed))
	}
	l, err := city.Build(cfg, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("building city %s: %w", cfg.Name, err)
	}
	return project, l, nil
}

func runGenerate(w io.Writer, projectPath string, flags cityFlags, windowW, windowH int) error {
	project, l, err := loadCity(projectPath, flags)
	if err != nil {
		return err
	}

	scene, err := scene2d.Assemble(l)
	if err != nil {
		return err
	}
	scene.Metadata.SpecVersion = project.SpecVersion
	scene.Metadata.Title = project.Title

	if windowW != 0 || windowH != 0 {
		if err := scene.Fit(windowW, windowH); err != nil {
			return err
		}
	}

	if report := scene2d.ValidateScene(scene); !report.Valid {
		printValidationReport(w, report)
		return errInvalid
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(scene)
}

func runValidate(w io.Writer, projectPath string) error {
	project, err := spec.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	report := city.ValidateProject(project, func(cfg spec.CityConfig) (*city.Layout, error) {
		return city.Build(cfg, city.WithLogger(slog.Default()))
	})
	printValidationReport(w, report)

	if !report.Valid {
		return errInvalid
	}
	return nil
}

func runStats(w io.Writer, projectPath string, flags cityFlags) error {
	_, l, err := loadCity(projectPath, flags)
	if err != nil {
		return err
	}

	buildings, _ := l.Buildings()
	onramps, _ := l.Onramps()
	stats, report := analytics.Summarize(l.Config(), buildings, onramps)

	printStats(w, l.Config(), stats)
	if len(report.Warnings) > 0 || len(report.Info) > 0 {
		fmt.Fprintln(w)
		printValidationReport(w, report)
	}
	return nil
}
