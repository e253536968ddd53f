// Package perception implements the geometric field-of-view filter that turns
// raw threat positions into the spatial statistics consumed by the danger and
// trajectory models.
package perception

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/simerr"
)

// Filter detects threats within the car's field of view and view radius and
// derives aggregate spatial statistics from the visible subset.
type Filter struct {
	cfg config.PerceptionConfig
}

// NewFilter creates a filter with the given configuration.
func NewFilter(cfg config.PerceptionConfig) *Filter {
	return &Filter{cfg: cfg}
}

// angleBetween returns the smallest absolute angle in degrees between the
// car's facing direction and the direction to (dx, dy), folded into [0,180].
func angleBetween(dx, dy, facingDeg float64) float64 {
	angleTo := math.Atan2(dy, dx) * 180 / math.Pi
	diff := math.Mod(angleTo-facingDeg+360, 360)
	if diff > 180 {
		return 360 - diff
	}
	return diff
}

// signedOffset returns the angular offset in (-180,180]: positive when the
// threat lies to the left of the facing direction, negative to the right.
func signedOffset(dx, dy, facingDeg float64) float64 {
	angleTo := math.Atan2(dy, dx) * 180 / math.Pi
	diff := math.Mod(angleTo-facingDeg+360, 360)
	if diff > 180 {
		diff -= 360
	}
	return diff
}

// Filter returns the visible subset of threats and the derived statistics.
// A threat is visible iff its distance is within the view radius and its
// absolute angular offset is within half the field of view.
//
// A nil threat collection or a threat with non-finite coordinates is a broken
// upstream contract and fails with simerr.ErrInvalidInput. An empty visible
// set is not an error: count 0, MinDistance +Inf, AvgDistance NaN, density 0.
func (f *Filter) Filter(threats []core.ThreatObject, carPos geom.XY, facingDeg float64) ([]core.ThreatObject, core.PerceptionStats, error) {
	if threats == nil {
		return nil, core.PerceptionStats{}, simerr.InvalidInput("threat collection is nil")
	}

	stats := core.PerceptionStats{
		MinDistance: math.Inf(1),
		AvgDistance: math.NaN(),
	}

	halfFOV := f.cfg.FOVDeg / 2
	halfFront := f.cfg.FrontConeDeg / 2

	visible := make([]core.ThreatObject, 0, len(threats))
	var sumDist, sumOffset, weightedSum float64

	for i, t := range threats {
		dx := t.Position.X - carPos.X
		dy := t.Position.Y - carPos.Y
		if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
			return nil, core.PerceptionStats{}, simerr.InvalidInput("threat %d has non-finite position", i)
		}

		dist := math.Hypot(dx, dy)
		offset := angleBetween(dx, dy, facingDeg)
		if dist > f.cfg.ViewRadius || offset > halfFOV {
			continue
		}

		visible = append(visible, t)
		sumDist += dist
		sumOffset += offset
		// Central threats weigh more: 1 at dead ahead, 0 at the FOV edge.
		weightedSum += 1 - offset/halfFOV

		if dist < stats.MinDistance {
			stats.MinDistance = dist
		}
		if offset <= halfFront {
			stats.FrontConeCount++
		}
		if signedOffset(dx, dy, facingDeg) >= 0 {
			stats.ThreatsLeft++
		} else {
			stats.ThreatsRight++
		}
	}

	if len(visible) == 0 {
		stats.Zone = "green"
		return visible, stats, nil
	}

	n := float64(len(visible))
	sectorArea := (f.cfg.FOVDeg / 360) * math.Pi * f.cfg.ViewRadius * f.cfg.ViewRadius

	stats.ThreatCount = len(visible)
	stats.AvgDistance = sumDist / n
	stats.Density = n / sectorArea
	stats.AngleWeightedDensity = weightedSum / sectorArea
	stats.AvgAngleOffset = sumOffset / n
	stats.Zone = f.zone(stats.MinDistance)

	return visible, stats, nil
}

// zone classifies the closest visible threat distance into a coarse risk area.
func (f *Filter) zone(minDistance float64) string {
	switch {
	case minDistance <= f.cfg.ZoneRedDistance:
		return "red"
	case minDistance <= f.cfg.ZoneYellowDistance:
		return "yellow"
	default:
		return "green"
	}
}
