package analytics

import (
	"math"
	"testing"

	"github.com/ChicagoDave/gnosis/pkg/geo"
	"github.com/ChicagoDave/gnosis/pkg/layout"
	"github.com/ChicagoDave/gnosis/pkg/spec"
)

func testConfig() spec.CityConfig {
	return spec.CityConfig{
		City:      spec.CityDef{Length: 100, Height: 60},
		Buildings: spec.BuildingsDef{AverageRoomPopulation: 2},
		Subway:    spec.SubwayDef{Height: 6, OnrampDistance: 50},
	}
}

func testBuildings() []layout.Building {
	return []layout.Building{
		{ID: "bld-0", Footprint: geo.R(0, 24, 20, 30), Floors: 2, Rooms: 8, Population: 16},
		{ID: "bld-1", Footprint: geo.R(24, 14, 10, 40), Floors: 3, Rooms: 5, Population: 10},
		{ID: "bld-2", Footprint: geo.R(40, 34, 30, 20), Floors: 1, Rooms: 8, Population: 16},
	}
}

func TestSummarizeTotals(t *testing.T) {
	onramps := []layout.Onramp{
		{Index: 0, Nominal: 0, X: 20},
		{Index: 1, Nominal: 50, X: 70},
		{Index: 2, Nominal: 100, X: 100},
	}
	s, r := Summarize(testConfig(), testBuildings(), onramps)

	if s.BuildingCount != 3 {
		t.Errorf("building_count = %d, want 3", s.BuildingCount)
	}
	if s.TotalFloors != 6 || s.TotalRooms != 21 || s.Population != 42 {
		t.Errorf("totals = %d floors, %d rooms, %d people; want 6, 21, 42",
			s.TotalFloors, s.TotalRooms, s.Population)
	}
	if math.Abs(s.StreetCoverage-0.6) > 1e-9 {
		t.Errorf("street_coverage = %v, want 0.6", s.StreetCoverage)
	}
	if s.MeanGap != 5 {
		t.Errorf("mean_gap = %v, want 5", s.MeanGap)
	}
	if s.TallestID != "bld-1" || s.TallestHeight != 40 {
		t.Errorf("tallest = %s (%d), want bld-1 (40)", s.TallestID, s.TallestHeight)
	}
	if s.OnrampSlots != 3 || s.OnrampCount != 3 {
		t.Errorf("onramps = %d/%d, want 3/3", s.OnrampCount, s.OnrampSlots)
	}
	if math.Abs(s.MeanOnrampShift-40.0/3) > 1e-9 {
		t.Errorf("mean_onramp_shift = %v, want 13.33", s.MeanOnrampShift)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestSummarizeSkippedOnramps(t *testing.T) {
	_, r := Summarize(testConfig(), testBuildings(), []layout.Onramp{{X: 20}})
	if len(r.Warnings) != 1 {
		t.Fatalf("expected 1 warning for skipped slots, got %d", len(r.Warnings))
	}
	if !r.Valid {
		t.Error("skipped onramps should only warn")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s, r := Summarize(testConfig(), nil, nil)
	if s.BuildingCount != 0 || s.MeanGap != 0 || s.StreetCoverage != 0 {
		t.Errorf("empty city stats = %+v", s)
	}
	if len(r.Warnings) != 2 {
		t.Errorf("expected warnings for no buildings and skipped onramps, got %d", len(r.Warnings))
	}
}

func TestSummarizeDenseStreet(t *testing.T) {
	buildings := []layout.Building{
		{ID: "bld-0", Footprint: geo.R(0, 10, 50, 44), Floors: 1, Rooms: 1},
		{ID: "bld-1", Footprint: geo.R(50, 10, 48, 44), Floors: 1, Rooms: 1},
	}
	_, r := Summarize(testConfig(), buildings, []layout.Onramp{{X: 0}, {X: 98}, {X: 100}})
	if len(r.Info) != 1 {
		t.Errorf("expected info about dense frontage, got %v", r.Info)
	}
}
