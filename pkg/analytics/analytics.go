package analytics

import (
	"fmt"

	"github.com/ChicagoDave/gnosis/pkg/layout"
	"github.com/ChicagoDave/gnosis/pkg/spec"
	"github.com/ChicagoDave/gnosis/pkg/validation"
)

// Stats holds aggregate figures for a generated city.
type Stats struct {
	BuildingCount   int     `json:"building_count"`
	TotalFloors     int     `json:"total_floors"`
	TotalRooms      int     `json:"total_rooms"`
	Population      int     `json:"population"`
	StreetCoverage  float64 `json:"street_coverage"` // built frontage / city length
	MeanGap         float64 `json:"mean_gap"`
	TallestID       string  `json:"tallest_id,omitempty"`
	TallestHeight   int     `json:"tallest_height"`
	OnrampSlots     int     `json:"onramp_slots"`
	OnrampCount     int     `json:"onramp_count"`
	MeanOnrampShift float64 `json:"mean_onramp_shift"`
}

// Coverage above this leaves almost no street frontage for onramps.
const denseCoverage = 0.95

// Summarize computes layout statistics and flags layouts that are legal but
// likely unintended, such as skipped onramps.
func Summarize(cfg spec.CityConfig, buildings []layout.Building, onramps []layout.Onramp) (*Stats, *validation.Report) {
	report := validation.NewReport()
	s := &Stats{BuildingCount: len(buildings)}

	frontage := 0
	for i, b := range buildings {
		s.TotalFloors += b.Floors
		s.TotalRooms += b.Rooms
		s.Population += b.Population
		frontage += b.Width()
		if b.Height() > s.TallestHeight {
			s.TallestHeight = b.Height()
			s.TallestID = b.ID
		}
		if i > 0 {
			s.MeanGap += float64(b.X() - buildings[i-1].Right())
		}
	}
	if len(buildings) > 1 {
		s.MeanGap /= float64(len(buildings) - 1)
	}
	if cfg.City.Length > 0 {
		s.StreetCoverage = float64(frontage) / float64(cfg.City.Length)
	}

	if cfg.Subway.OnrampDistance > 0 {
		s.OnrampSlots = cfg.City.Length/cfg.Subway.OnrampDistance + 1
	}
	s.OnrampCount = len(onramps)
	shift := 0
	for _, o := range onramps {
		shift += o.Shift()
	}
	if len(onramps) > 0 {
		s.MeanOnrampShift = float64(shift) / float64(len(onramps))
	}

	validateStats(s, report)
	return s, report
}

func validateStats(s *Stats, r *validation.Report) {
	if s.BuildingCount == 0 {
		r.AddWarning(validation.Result{
			Level:       validation.LevelLayout,
			Message:     "no buildings were placed",
			Path:        "buildings",
			Suggestions: []string{"Lower buildings.min_width or increase city.length"},
		})
	}
	if skipped := s.OnrampSlots - s.OnrampCount; skipped > 0 {
		r.AddWarning(validation.Result{
			Level:       validation.LevelLayout,
			Message:     fmt.Sprintf("%d of %d onramp slots were skipped because buildings cover them", skipped, s.OnrampSlots),
			Path:        "subway.onramp_distance",
			ActualValue: skipped,
			Suggestions: []string{"Increase buildings.max_distance so the street has gaps"},
		})
	}
	if s.StreetCoverage > denseCoverage {
		r.AddInfo(validation.Result{
			Level:       validation.LevelLayout,
			Message:     fmt.Sprintf("street coverage %.0f%% leaves little open frontage", s.StreetCoverage*100),
			Path:        "buildings",
			ActualValue: s.StreetCoverage,
		})
	}
}
