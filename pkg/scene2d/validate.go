package scene2d

import (
	"fmt"

	"github.com/ChicagoDave/gnosis/pkg/validation"
)

// ValidateScene performs structural validation on an assembled scene.
// It checks entity IDs, layer index consistency, and bounds enclosure.
func ValidateScene(s *Scene) *validation.Report {
	r := validation.NewReport()

	if s == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelLayout,
			Message: "scene is nil",
		})
		return r
	}

	ids := validateEntityIDs(s, r)
	validateLayerIndices(s, ids, r)
	validateBoundsEnclosure(s, r)

	return r
}

func validateEntityIDs(s *Scene, r *validation.Report) map[string]LayerType {
	ids := make(map[string]LayerType, s.EntityCount())

	add := func(id string, layer LayerType, where string) {
		if id == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelLayout,
				Message:  fmt.Sprintf("%s has empty ID", where),
				Path:     where,
				Expected: "non-empty string",
			})
			return
		}
		if _, exists := ids[id]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("duplicate entity ID %q", id),
				Path:        where,
				ActualValue: id,
			})
		}
		ids[id] = layer
	}

	for i, b := range s.Buildings {
		add(b.ID, LayerSurface, fmt.Sprintf("buildings[%d]", i))
	}
	for i, o := range s.Onramps {
		add(o.ID, LayerSurface, fmt.Sprintf("onramps[%d]", i))
	}
	for i, seg := range s.Subway {
		add(seg.ID, LayerSubway, fmt.Sprintf("subway[%d]", i))
	}
	return ids
}

func validateLayerIndices(s *Scene, ids map[string]LayerType, r *validation.Report) {
	members := make(map[string]bool, len(ids))
	for layer, list := range s.Layers {
		for _, id := range list {
			want, ok := ids[id]
			if !ok {
				r.AddError(validation.Result{
					Level:       validation.LevelLayout,
					Message:     fmt.Sprintf("layer %s references non-existent entity %q", layer, id),
					Path:        fmt.Sprintf("layers.%s", layer),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
				continue
			}
			if want != layer {
				r.AddError(validation.Result{
					Level:       validation.LevelLayout,
					Message:     fmt.Sprintf("entity %q belongs to layer %s but is listed in %s", id, want, layer),
					Path:        fmt.Sprintf("layers.%s", layer),
					ActualValue: id,
				})
			}
			members[id] = true
		}
	}
	for id, layer := range ids {
		if id != "" && !members[id] {
			r.AddError(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("entity %q is not in layer %s", id, layer),
				Path:        fmt.Sprintf("layers.%s", layer),
				ActualValue: id,
			})
		}
	}
}

func validateBoundsEnclosure(s *Scene, r *validation.Report) {
	bounds := s.Metadata.Bounds
	for _, b := range s.Buildings {
		if !bounds.Contains(b.Footprint) {
			r.AddWarning(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("building %q footprint %v outside city bounds %v", b.ID, b.Footprint, bounds),
				Path:        "metadata.bounds",
				ActualValue: b.Footprint.String(),
			})
		}
	}
	for _, seg := range s.Subway {
		if !bounds.Contains(seg.Footprint) {
			r.AddWarning(validation.Result{
				Level:       validation.LevelLayout,
				Message:     fmt.Sprintf("segment %q footprint %v outside city bounds %v", seg.ID, seg.Footprint, bounds),
				Path:        "metadata.bounds",
				ActualValue: seg.Footprint.String(),
			})
		}
	}
	if !bounds.Contains(s.Viewport) {
		r.AddWarning(validation.Result{
			Level:       validation.LevelLayout,
			Message:     fmt.Sprintf("viewport %v outside city bounds %v", s.Viewport, bounds),
			Path:        "viewport",
			ActualValue: s.Viewport.String(),
		})
	}
}
