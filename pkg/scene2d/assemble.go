package scene2d

import (
	"fmt"

	"github.com/ChicagoDave/gnosis/pkg/analytics"
	"github.com/ChicagoDave/gnosis/pkg/city"
	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/viewport"
)

// Assemble translates a built layout into a Scene. It fails with
// city.ErrNotBuilt for a layout that has not been generated.
func Assemble(l *city.Layout) (*Scene, error) {
	bounds, err := l.Bounds()
	if err != nil {
		return nil, err
	}
	// Bounds succeeded, so the layout is built and the rest cannot fail.
	buildings, _ := l.Buildings()
	segments, _ := l.SubwaySegments()
	onramps, _ := l.Onramps()
	view, _ := l.Viewport()
	groundY, _ := l.GroundY()

	cfg := l.Config()
	stats, _ := analytics.Summarize(cfg, buildings, onramps)

	s := NewScene()
	s.Metadata = Metadata{
		City:    cfg.Name,
		Seed:    cfg.Seed,
		Bounds:  bounds,
		GroundY: groundY,
		Stats:   *stats,
	}
	s.Viewport = view

	for _, b := range buildings {
		s.Buildings = append(s.Buildings, Building2D{
			ID:         b.ID,
			Footprint:  b.Footprint,
			Floors:     b.Floors,
			Rooms:      b.Rooms,
			Population: b.Population,
		})
		s.Layers[LayerSurface] = append(s.Layers[LayerSurface], b.ID)
	}
	for _, o := range onramps {
		s.Onramps = append(s.Onramps, Onramp2D{
			ID:       o.ID,
			Position: geo.Pt(o.X, o.Y),
			Shift:    o.Shift(),
		})
		s.Layers[LayerSurface] = append(s.Layers[LayerSurface], o.ID)
	}
	for _, seg := range segments {
		s.Subway = append(s.Subway, Segment2D{
			ID:        seg.ID,
			Footprint: seg.Footprint,
		})
		s.Layers[LayerSubway] = append(s.Layers[LayerSubway], seg.ID)
	}

	return s, nil
}

// Fit records how the scene's viewport is drawn into a window of the given
// size. Calling it again after a resize replaces the Display only.
func (s *Scene) Fit(windowW, windowH int) error {
	d, err := viewport.Fit(s.Viewport, windowW, windowH)
	if err != nil {
		return err
	}
	s.Display = &d
	return nil
}

// EntityCount returns the number of drawable entities.
func (s *Scene) EntityCount() int {
	return len(s.Buildings) + len(s.Subway) + len(s.Onramps)
}

func (s *Scene) String() string {
	return fmt.Sprintf("scene %s: %d buildings, %d subway segments, %d onramps",
		s.Metadata.City, len(s.Buildings), len(s.Subway), len(s.Onramps))
}
