package city

import (
	"fmt"
	"sort"

	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/layout"
	"github.com/ChicagoDave/gnosis/pkg/validation"
)

// Validate checks a generated layout against the placement invariants:
// no overlapping buildings, every entity inside the city, derived floors
// and rooms of at least 1, buildings in strictly increasing x, and no
// onramp under a building.
func Validate(bounds geo.Rect, buildings []layout.Building, segments []layout.SubwaySegment, onramps []layout.Onramp, view geo.Rect) *validation.Report {
	r := validation.NewReport()

	validateBuildings(bounds, buildings, r)
	validateOverlaps(buildings, r)
	validateSegments(bounds, segments, r)
	validateOnramps(bounds, buildings, onramps, r)

	if !bounds.Contains(view) || view.Empty() {
		r.AddError(validation.Result{
			Level:       validation.LevelLayout,
			Message:     fmt.Sprintf("viewport %v not inside city bounds %v", view, bounds),
			Path:        "viewport",
			ActualValue: view.String(),
		})
	}

	return r
}

func validateBuildings(bounds geo.Rect, buildings []layout.Building, r *validation.Report) {
	for i, b := range buildings {
		if b.Footprint.Empty() {
			r.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("building %s has an empty footprint %v", b.ID, b.Footprint),
				Path:        b.ID,
				ActualValue: b.Footprint.String(),
				Expected:    "width and height > 0",
			})
		}
		if !bounds.Contains(b.Footprint) {
			r.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("building %s footprint %v outside city bounds %v", b.ID, b.Footprint, bounds),
				Path:        b.ID,
				ActualValue: b.Footprint.String(),
			})
		}
		if b.Floors < 1 {
			r.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("building %s has %d floors", b.ID, b.Floors),
				Path:        b.ID,
				ActualValue: b.Floors,
				Expected:    ">= 1",
			})
		}
		if b.Rooms < 1 {
			r.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("building %s has %d rooms", b.ID, b.Rooms),
				Path:        b.ID,
				ActualValue: b.Rooms,
				Expected:    ">= 1",
			})
		}
		if i > 0 && b.X() <= buildings[i-1].X() {
			r.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("building %s at x=%d is not right of %s at x=%d", b.ID, b.X(), buildings[i-1].ID, buildings[i-1].X()),
				Path:        b.ID,
				ActualValue: b.X(),
			})
		}
	}
}

// validateOverlaps sweeps buildings in x order so only neighbours whose
// spans can intersect are compared.
func validateOverlaps(buildings []layout.Building, r *validation.Report) {
	order := make([]int, len(buildings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return buildings[order[a]].X() < buildings[order[b]].X()
	})

	for ai, i := range order {
		a := buildings[i]
		for _, j := range order[ai+1:] {
			b := buildings[j]
			if b.X() >= a.Right() {
				break
			}
			if geo.Overlaps(a.Footprint, b.Footprint) {
				r.AddError(validation.Result{
					Level:       validation.LevelLayout,
					Message:     fmt.Sprintf("building %s %v overlaps %s %v", a.ID, a.Footprint, b.ID, b.Footprint),
					Path:        a.ID,
					ActualValue: b.ID,
				})
			}
		}
	}
}

func validateSegments(bounds geo.Rect, segments []layout.SubwaySegment, r *validation.Report) {
	for _, s := range segments {
		if s.Footprint.Empty() || !bounds.Contains(s.Footprint) {
			r.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("subway segment %s footprint %v outside city bounds %v", s.ID, s.Footprint, bounds),
				Path:        s.ID,
				ActualValue: s.Footprint.String(),
			})
		}
	}
}

func validateOnramps(bounds geo.Rect, buildings []layout.Building, onramps []layout.Onramp, r *validation.Report) {
	for _, o := range onramps {
		if o.X < bounds.X || o.X > bounds.Right() {
			r.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("onramp %s at x=%d outside city", o.ID, o.X),
				Path:        o.ID,
				ActualValue: o.X,
			})
		}
		for _, b := range buildings {
			if b.Footprint.SpanContains(o.X) {
				r.AddError(validation.Result{
					Level:       validation.LevelLayout,
					Message:     fmt.Sprintf("onramp %s at x=%d is under building %s [%d, %d)", o.ID, o.X, b.ID, b.X(), b.Right()),
					Path:        o.ID,
					ActualValue: o.X,
				})
				break
			}
		}
	}
}
