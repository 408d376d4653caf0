package layout

import (
	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/spec"
)

const (
	testLength = 500
	testHeight = 140
	testSubway = 6
	testGround = testHeight - testSubway
)

func defaultBounds() geo.Rect {
	return geo.Bounds(testLength, testHeight)
}

func defaultBuildings() spec.BuildingsDef {
	return spec.BuildingsDef{
		MinHeight:             100,
		MaxHeight:             120,
		MinWidth:              15,
		MaxWidth:              20,
		MinDistance:           0,
		MaxDistance:           6,
		AverageRoomPopulation: 4,
	}
}

func defaultSubway() spec.SubwayDef {
	return spec.SubwayDef{Height: testSubway, OnrampDistance: 160}
}

// row builds touching buildings from (x, width) pairs.
func row(spans ...[2]int) []Building {
	out := make([]Building, 0, len(spans))
	for i, s := range spans {
		out = append(out, Building{
			Index:     i,
			Footprint: geo.R(s[0], testGround-20, s[1], 20),
			Floors:    1,
			Rooms:     1,
		})
	}
	return out
}
