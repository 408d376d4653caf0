package validation

import (
	"fmt"

	"github.com/ChicagoDave/gnosis/pkg/spec"
)

// ValidateConfig checks a full city bundle before any generation runs.
// Every problem is listed, not just the first.
func ValidateConfig(c spec.CityConfig) *Report {
	r := NewReport()

	r.Merge(ValidateCity(c.City))
	r.Merge(ValidateSubway(c.Subway, c.City))
	r.Merge(ValidateBuildings(c.Buildings, c.City, c.City.Height-c.Subway.Height))
	r.Merge(ValidateFov(c.FovOrZero(), c.City))

	return r
}

// ValidateCity checks the city plan extents.
func ValidateCity(c spec.CityDef) *Report {
	r := NewReport()
	positive(r, "city.length", c.Length)
	positive(r, "city.height", c.Height)
	return r
}

// ValidateBuildings checks building ranges. groundY is the street line the
// buildings stand on; no building may be taller than it.
func ValidateBuildings(b spec.BuildingsDef, c spec.CityDef, groundY int) *Report {
	r := NewReport()

	positive(r, "buildings.min_width", b.MinWidth)
	positive(r, "buildings.min_height", b.MinHeight)
	if b.MinDistance < 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "buildings.min_distance must be non-negative",
			Path:        "buildings.min_distance",
			ActualValue: b.MinDistance,
			Expected:    ">= 0",
		})
	}

	ordered(r, "buildings", "width", b.MinWidth, b.MaxWidth)
	ordered(r, "buildings", "height", b.MinHeight, b.MaxHeight)
	ordered(r, "buildings", "distance", b.MinDistance, b.MaxDistance)

	if b.AverageRoomPopulation <= 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "buildings.average_room_population must be greater than 0",
			Path:        "buildings.average_room_population",
			ActualValue: b.AverageRoomPopulation,
			Expected:    "> 0",
		})
	}

	if groundY > 0 && b.MaxHeight > groundY {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("buildings.max_height %d rises above the city top (street level is at %d)", b.MaxHeight, groundY),
			Path:        "buildings.max_height",
			ActualValue: b.MaxHeight,
			Expected:    fmt.Sprintf("<= %d (city.height - subway.height)", groundY),
			Suggestions: []string{"Increase city.height", "Lower buildings.max_height"},
		})
	}

	if c.Length > 0 && b.MinWidth > c.Length {
		r.AddWarning(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("buildings.min_width %d exceeds city.length %d; no buildings will be placed", b.MinWidth, c.Length),
			Path:        "buildings.min_width",
			ActualValue: b.MinWidth,
		})
	}

	return r
}

// ValidateSubway checks the subway band against the city height.
func ValidateSubway(s spec.SubwayDef, c spec.CityDef) *Report {
	r := NewReport()

	positive(r, "subway.height", s.Height)
	positive(r, "subway.onramp_distance", s.OnrampDistance)
	if s.Height > 0 && c.Height > 0 && s.Height >= c.Height {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("subway.height %d leaves no street level in a city %d high", s.Height, c.Height),
			Path:        "subway.height",
			ActualValue: s.Height,
			Expected:    fmt.Sprintf("< %d", c.Height),
		})
	}
	if s.OnrampDistance > 0 && c.Length > 0 && s.OnrampDistance > c.Length {
		r.AddInfo(Result{
			Level:   LevelConfig,
			Message: "subway.onramp_distance exceeds city.length; only the onramp at x=0 will be considered",
			Path:    "subway.onramp_distance",
		})
	}

	return r
}

// ValidateFov checks the requested initial viewport.
func ValidateFov(f spec.FovDef, c spec.CityDef) *Report {
	r := NewReport()

	positive(r, "fov.width", f.Width)
	positive(r, "fov.height", f.Height)

	if f.Width > c.Length || f.Height > c.Height {
		r.AddInfo(Result{
			Level:   LevelConfig,
			Message: fmt.Sprintf("fov %dx%d is larger than the city %dx%d; it will be reduced to the city extent", f.Width, f.Height, c.Length, c.Height),
			Path:    "fov",
		})
	}
	clampX := f.Width <= c.Length && (f.X < 0 || f.X+f.Width > c.Length)
	clampY := f.Height <= c.Height && (f.Y < 0 || f.Y+f.Height > c.Height)
	if clampX || clampY {
		r.AddWarning(Result{
			Level:       LevelConfig,
			Message:     "fov origin places the viewport outside the city; it will be clamped",
			Path:        "fov",
			ActualValue: fmt.Sprintf("(%d, %d)", f.X, f.Y),
		})
	}

	return r
}

func positive(r *Report, path string, v int) {
	if v <= 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("%s must be greater than 0", path),
			Path:        path,
			ActualValue: v,
			Expected:    "> 0",
		})
	}
}

func ordered(r *Report, group, name string, lo, hi int) {
	if hi < lo {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("%s.max_%s (%d) must not be less than min_%s (%d)", group, name, hi, name, lo),
			Path:        fmt.Sprintf("%s.max_%s", group, name),
			ActualValue: hi,
			Expected:    fmt.Sprintf(">= %d", lo),
		})
	}
}
