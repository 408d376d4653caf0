package city

import (
	"errors"

	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
)

// BuildFunc produces a built layout for a city config.
type BuildFunc func(spec.CityConfig) (*Layout, error)

// ValidateProject reports on every city in p. Paths are prefixed with
// "cities.<name>.". A city whose config is valid is built with build (Build
// when nil) so its layout findings are included.
func ValidateProject(p *spec.Project, build BuildFunc) *validation.Report {
	if build == nil {
		build = func(cfg spec.CityConfig) (*Layout, error) { return Build(cfg) }
	}
	report := validation.NewReport()

	if len(p.Cities) == 0 {
		report.AddError(validation.Result{
			Level:   validation.LevelConfig,
			Message: "project defines no cities",
			Path:    "cities",
		})
		return report
	}
	if p.InitialCity != "" {
		if _, ok := p.City(p.InitialCity); !ok {
			report.AddError(validation.Result{
				Level:       validation.LevelConfig,
				Message:     "initial_city names a city that is not defined",
				Path:        "initial_city",
				ActualValue: p.InitialCity,
			})
		}
	}

	seen := make(map[string]bool, len(p.Cities))
	for _, c := range p.Cities {
		if seen[c.Name] {
			report.AddError(validation.Result{
				Level:       validation.LevelConfig,
				Message:     "city names must be unique",
				Path:        "cities",
				ActualValue: c.Name,
			})
			continue
		}
		seen[c.Name] = true

		cfg, _ := p.City(c.Name)
		prefix := "cities." + cfg.Name + "."

		if cr := validation.ValidateConfig(cfg); !cr.Valid {
			report.Merge(cr.WithPathPrefix(prefix))
			continue
		}

		l, err := build(cfg)
		if err != nil {
			var iv *InvariantViolation
			if errors.As(err, &iv) && iv.Report != nil {
				report.Merge(iv.Report.WithPathPrefix(prefix))
				continue
			}
			report.AddError(validation.Result{
				Level:   validation.LevelLayout,
				Message: err.Error(),
				Path:    prefix + "layout",
			})
			continue
		}
		lr, _ := l.Report()
		report.Merge(lr.WithPathPrefix(prefix))
	}
	return report
}
