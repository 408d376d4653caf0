// Package viewport maps a requested field of view onto a generated city and
// scales the result for the host window.
package viewport

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
)

// ErrInvalidWindow is returned by Fit for a non-positive window size.
var ErrInvalidWindow = errors.New("window size must be positive")

// Resolve clamps the requested viewport into the city. On each axis where
// the city is larger than the viewport, the origin is clamped so the
// viewport stays inside. Where the city is smaller, the viewport covers the
// city's whole extent on that axis.
func Resolve(fov spec.FovDef, bounds geo.Rect) (geo.Rect, error) {
	r := validation.ValidateFov(fov, spec.CityDef{Length: bounds.Width, Height: bounds.Height})
	if err := r.ConfigErr(); err != nil {
		return geo.Rect{}, err
	}

	x, w := resolveAxis(fov.X, fov.Width, bounds.X, bounds.Width)
	y, h := resolveAxis(fov.Y, fov.Height, bounds.Y, bounds.Height)
	return geo.R(x, y, w, h), nil
}

func resolveAxis(start, size, lo, extent int) (int, int) {
	if extent <= size {
		return lo, extent
	}
	return geo.Clamp(start, lo, lo+extent-size), size
}

// Display describes how a resolved viewport is drawn into a host window.
type Display struct {
	WindowWidth  int     `json:"window_width"`
	WindowHeight int     `json:"window_height"`
	Scale        float64 `json:"scale"`
	OffsetX      float64 `json:"offset_x"`
	OffsetY      float64 `json:"offset_y"`
}

// Fit computes the uniform scale that fits view inside a window of the given
// size, and the offsets that center it. Resizing only ever changes the
// Display; the city layout and resolved viewport stay as they are.
func Fit(view geo.Rect, windowW, windowH int) (Display, error) {
	if windowW <= 0 || windowH <= 0 {
		return Display{}, fmt.Errorf("%w: %dx%d", ErrInvalidWindow, windowW, windowH)
	}
	if view.Empty() {
		return Display{}, fmt.Errorf("viewport %v has no area", view)
	}

	sx := float64(windowW) / float64(view.Width)
	sy := float64(windowH) / float64(view.Height)
	scale := min(sx, sy)

	return Display{
		WindowWidth:  windowW,
		WindowHeight: windowH,
		Scale:        scale,
		OffsetX:      (float64(windowW) - float64(view.Width)*scale) / 2,
		OffsetY:      (float64(windowH) - float64(view.Height)*scale) / 2,
	}, nil
}
