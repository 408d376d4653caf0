package layout

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
)

const (
	// FloorUnitHeight is the vertical extent of one storey in plan units.
	FloorUnitHeight = 12
	// RoomUnitArea is the facade area of one notional 6x6 room cell. Rooms
	// are derived as area / RoomUnitArea / average_room_population.
	RoomUnitArea = 36.0
)

// Building is a placed building standing on street level.
type Building struct {
	ID         string   `json:"id"`
	Index      int      `json:"index"`
	Footprint  geo.Rect `json:"footprint"`
	Floors     int      `json:"floors"`
	Rooms      int      `json:"rooms"`
	Population int      `json:"population"`
}

// X returns the left edge of the footprint.
func (b Building) X() int { return b.Footprint.X }

// Width returns the footprint width.
func (b Building) Width() int { return b.Footprint.Width }

// Height returns the footprint height.
func (b Building) Height() int { return b.Footprint.Height }

// Right returns the right edge of the footprint.
func (b Building) Right() int { return b.Footprint.Right() }

// Elevation is the footprint's y measured up from the ground baseline.
// Buildings always stand on the street, so it is 0.
func (b Building) Elevation() int { return 0 }

// Floors derives the storey count from a building height. Minimum 1.
func Floors(height int) int {
	return max(1, height/FloorUnitHeight)
}

// Rooms derives the room count from facade area and the people housed per
// room. Minimum 1.
func Rooms(width, height int, averageRoomPopulation float64) int {
	n := math.Floor(float64(width*height) / RoomUnitArea / averageRoomPopulation)
	return max(1, int(n))
}

// GenerateBuildings walks the city left to right placing buildings with
// sampled widths, heights and gaps. Buildings stand on groundY. A building
// whose right edge would pass the city's right edge is not emitted, and
// generation stops there.
func GenerateBuildings(bounds geo.Rect, groundY int, cfg spec.BuildingsDef, src geo.Source) ([]Building, error) {
	report := validation.ValidateBuildings(cfg, spec.CityDef{Length: bounds.Width, Height: bounds.Height}, groundY)
	if groundY <= bounds.Y || groundY > bounds.Bottom() {
		report.AddError(validation.Result{
			Level:       validation.LevelConfig,
			Message:     fmt.Sprintf("street level %d lies outside the city", groundY),
			Path:        "subway.height",
			ActualValue: groundY,
		})
	}
	if err := report.ConfigErr(); err != nil {
		return nil, err
	}

	width := geo.Range{Min: cfg.MinWidth, Max: cfg.MaxWidth}
	height := geo.Range{Min: cfg.MinHeight, Max: cfg.MaxHeight}
	gap := geo.Range{Min: cfg.MinDistance, Max: cfg.MaxDistance}

	// Every placement advances x by at least MinWidth.
	maxIter := bounds.Width/cfg.MinWidth + 1
	buildings := make([]Building, 0, maxIter)

	x := bounds.X
	for i := 0; i < maxIter; i++ {
		w, err := width.Sample(src)
		if err != nil {
			return nil, fmt.Errorf("sampling building width: %w", err)
		}
		h, err := height.Sample(src)
		if err != nil {
			return nil, fmt.Errorf("sampling building height: %w", err)
		}
		if x+w > bounds.Right() {
			break
		}

		rooms := Rooms(w, h, cfg.AverageRoomPopulation)
		n := len(buildings)
		buildings = append(buildings, Building{
			ID:         fmt.Sprintf("bld-%d", n),
			Index:      n,
			Footprint:  geo.R(x, groundY-h, w, h),
			Floors:     Floors(h),
			Rooms:      rooms,
			Population: int(math.Round(float64(rooms) * cfg.AverageRoomPopulation)),
		})

		g, err := gap.Sample(src)
		if err != nil {
			return nil, fmt.Errorf("sampling building gap: %w", err)
		}
		x += w + g
	}

	return buildings, nil
}
