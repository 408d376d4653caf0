package scene2d

import (
	"github.com/ChicagoDave/gnosis/pkg/analytics"
	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/viewport"
)

// Scene is the complete 2D scene handed to the host rendering layer.
// The host reads it and instantiates visual objects; it never writes back.
type Scene struct {
	Metadata  Metadata               `json:"metadata"`
	Viewport  geo.Rect               `json:"viewport"`
	Display   *viewport.Display      `json:"display,omitempty"`
	Buildings []Building2D           `json:"buildings"`
	Subway    []Segment2D            `json:"subway"`
	Onramps   []Onramp2D             `json:"onramps"`
	Layers    map[LayerType][]string `json:"layers"`
}

// LayerType identifies a draw layer.
type LayerType string

const (
	LayerSurface LayerType = "surface"
	LayerSubway  LayerType = "subway"
)

// Metadata holds city-level summary data.
type Metadata struct {
	SpecVersion string          `json:"spec_version,omitempty"`
	Title       string          `json:"title,omitempty"`
	City        string          `json:"city"`
	Seed        uint64          `json:"seed"`
	Bounds      geo.Rect        `json:"bounds"`
	GroundY     int             `json:"ground_y"`
	Stats       analytics.Stats `json:"stats"`
	GeneratedAt string          `json:"generated_at,omitempty"`
}

// Building2D is a building as drawn on the surface layer.
type Building2D struct {
	ID         string   `json:"id"`
	Footprint  geo.Rect `json:"footprint"`
	Floors     int      `json:"floors"`
	Rooms      int      `json:"rooms"`
	Population int      `json:"population"`
}

// Segment2D is a stretch of subway trackway.
type Segment2D struct {
	ID        string   `json:"id"`
	Footprint geo.Rect `json:"footprint"`
}

// Onramp2D is a street-level subway entrance.
type Onramp2D struct {
	ID       string    `json:"id"`
	Position geo.Point `json:"position"`
	Shift    int       `json:"shift"`
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		Buildings: []Building2D{},
		Subway:    []Segment2D{},
		Onramps:   []Onramp2D{},
		Layers:    make(map[LayerType][]string),
	}
}
