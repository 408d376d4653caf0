package layout

import (
	"fmt"
	"sort"

	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
)

// SubwaySegment is one stretch of trackway in the subway band.
type SubwaySegment struct {
	ID        string   `json:"id"`
	Index     int      `json:"index"`
	Footprint geo.Rect `json:"footprint"`
}

// X returns the segment start.
func (s SubwaySegment) X() int { return s.Footprint.X }

// Width returns the segment length along the city axis.
func (s SubwaySegment) Width() int { return s.Footprint.Width }

// YOffset returns the top of the subway band.
func (s SubwaySegment) YOffset() int { return s.Footprint.Y }

// Onramp is a surface access point connecting street level to the subway.
type Onramp struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`   // nominal slot k, at k * onramp_distance
	Nominal int    `json:"nominal"` // x of the nominal slot
	X       int    `json:"x"`
	Y       int    `json:"y"` // street level
}

// Shift returns how far the onramp was nudged right of its nominal slot.
func (o Onramp) Shift() int { return o.X - o.Nominal }

// GenerateSubway lays the trackway along the full city length and places
// onramps every OnrampDistance, nudging each one right past any building
// whose span covers it. An onramp that cannot clear before the next slot
// is skipped. The trackway is split at each placed onramp.
//
// buildings must be sorted by x and non-overlapping.
func GenerateSubway(bounds geo.Rect, cfg spec.SubwayDef, buildings []Building) ([]SubwaySegment, []Onramp, error) {
	report := validation.ValidateSubway(cfg, spec.CityDef{Length: bounds.Width, Height: bounds.Height})
	if err := report.ConfigErr(); err != nil {
		return nil, nil, err
	}

	yOffset := bounds.Bottom() - cfg.Height
	onramps := placeOnramps(bounds, yOffset, cfg.OnrampDistance, buildings)
	segments := splitTrackway(bounds, yOffset, cfg.Height, onramps)

	return segments, onramps, nil
}

func placeOnramps(bounds geo.Rect, groundY, distance int, buildings []Building) []Onramp {
	onramps := []Onramp{}

	for k := 0; bounds.X+k*distance <= bounds.Right(); k++ {
		nominal := bounds.X + k*distance
		limit := min(nominal+distance, bounds.Right()+1)

		x := nominal
		for {
			i := blockingBuilding(buildings, x)
			if i < 0 {
				break
			}
			x = buildings[i].Right()
		}
		if x >= limit {
			continue
		}

		n := len(onramps)
		onramps = append(onramps, Onramp{
			ID:      fmt.Sprintf("ramp-%d", n),
			Index:   k,
			Nominal: nominal,
			X:       x,
			Y:       groundY,
		})
	}

	return onramps
}

// blockingBuilding returns the index of the building whose [x, x+width)
// span holds x, or -1.
func blockingBuilding(buildings []Building, x int) int {
	i := sort.Search(len(buildings), func(i int) bool {
		return buildings[i].Right() > x
	})
	if i < len(buildings) && buildings[i].Footprint.SpanContains(x) {
		return i
	}
	return -1
}

func splitTrackway(bounds geo.Rect, yOffset, height int, onramps []Onramp) []SubwaySegment {
	cuts := []int{bounds.X}
	for _, o := range onramps {
		if o.X > cuts[len(cuts)-1] && o.X < bounds.Right() {
			cuts = append(cuts, o.X)
		}
	}
	cuts = append(cuts, bounds.Right())

	segments := make([]SubwaySegment, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		w := cuts[i+1] - cuts[i]
		if w <= 0 {
			continue
		}
		n := len(segments)
		segments = append(segments, SubwaySegment{
			ID:        fmt.Sprintf("sub-%d", n),
			Index:     n,
			Footprint: geo.R(cuts[i], yOffset, w, height),
		})
	}
	return segments
}
