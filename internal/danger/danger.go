// Package danger derives a normalized risk score and categorical label from
// perception statistics. The model is stateless; all weights come from
// configuration at construction.
package danger

import (
	"math"
	"strings"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/simerr"
)

// Thresholds for the categorical label.
const (
	highThreshold   = 0.75
	mediumThreshold = 0.4
)

// Defaults substituted for absent telemetry fields.
const (
	defaultMinDistance    = 10.0
	defaultAvgAngleOffset = 90.0
	defaultZone           = "green"
)

// Inputs are the perception features the model scores.
type Inputs struct {
	ThreatCount          float64
	MinDistance          float64
	FOVDensity           float64
	FrontConeCount       float64
	AngleWeightedDensity float64
	AvgAngleOffset       float64
	Zone                 string
}

// InputsFromStats adapts fully-populated perception output.
func InputsFromStats(ps core.PerceptionStats) Inputs {
	in := Inputs{
		ThreatCount:          float64(ps.ThreatCount),
		MinDistance:          ps.MinDistance,
		FOVDensity:           ps.Density,
		FrontConeCount:       float64(ps.FrontConeCount),
		AngleWeightedDensity: ps.AngleWeightedDensity,
		AvgAngleOffset:       ps.AvgAngleOffset,
		Zone:                 ps.Zone,
	}
	if math.IsNaN(in.AvgAngleOffset) {
		in.AvgAngleOffset = defaultAvgAngleOffset
	}
	return in
}

// Model computes danger scores. Construct with NewModel; the zero value uses
// zero weights and scores everything 0.
type Model struct {
	cfg config.DangerConfig
}

// NewModel creates a danger rating model with the given weights.
func NewModel(cfg config.DangerConfig) *Model {
	return &Model{cfg: cfg}
}

// Rate computes the danger score and label for the given inputs.
//
// The raw weighted sum is scaled by the zone multiplier, boosted by up to
// MaxAngleBonus as the average threat offset approaches dead ahead, then
// clamped to [0,1]. The minimum distance is floored at 0.1 so the inverse
// distance term cannot blow up.
func (m *Model) Rate(in Inputs) core.DangerAssessment {
	score := m.cfg.ThreatCountWeight*(in.ThreatCount/10) +
		m.cfg.MinDistanceWeight*(1/math.Max(in.MinDistance, 0.1)) +
		m.cfg.FOVDensityWeight*in.FOVDensity +
		m.cfg.FrontConeWeight*(in.FrontConeCount/10) +
		m.cfg.AngleDensityWeight*in.AngleWeightedDensity

	zone := strings.ToLower(in.Zone)
	if mult, ok := m.cfg.ZoneMultipliers[zone]; ok {
		score *= mult
	}

	// Threats aligned straight ahead earn the full bonus; at 90 degrees or
	// more off-axis there is none.
	angleMult := 1 + ((90-math.Min(in.AvgAngleOffset, 90))/90)*m.cfg.MaxAngleBonus
	score *= angleMult

	score = math.Min(math.Max(score, 0.0), 1.0)

	// Label on the full-precision score; rounding is presentation only.
	label := Label(score)
	score = math.Round(score*1000) / 1000

	return core.DangerAssessment{Score: score, Label: label}
}

// Label maps a score to its categorical label. The boundaries at 0.4 and 0.75
// are exclusive: a score of exactly 0.4 is still Low.
func Label(score float64) string {
	switch {
	case score > highThreshold:
		return "High"
	case score > mediumThreshold:
		return "Medium"
	default:
		return "Low"
	}
}

// RateMap scores loosely-typed telemetry keyed by the canonical record field
// names, substituting documented defaults for absent keys. A nil map or a
// non-numeric value fails with simerr.ErrInvalidInput.
func (m *Model) RateMap(vals map[string]any) (core.DangerAssessment, error) {
	if vals == nil {
		return core.DangerAssessment{}, simerr.InvalidInput("perception stats map is nil")
	}

	in := Inputs{
		MinDistance:    defaultMinDistance,
		AvgAngleOffset: defaultAvgAngleOffset,
		Zone:           defaultZone,
	}

	numeric := []struct {
		key  string
		dest *float64
	}{
		{"FOV_Threat_Count", &in.ThreatCount},
		{"Min_Distance_In_FOV", &in.MinDistance},
		{"FOV_Density", &in.FOVDensity},
		{"FOV_Front_Cone_Threat_Count", &in.FrontConeCount},
		{"Angle_Weighted_Density", &in.AngleWeightedDensity},
		{"Average_Threat_Angle_Offset", &in.AvgAngleOffset},
	}
	for _, f := range numeric {
		v, ok := vals[f.key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			*f.dest = n
		case int:
			*f.dest = float64(n)
		default:
			return core.DangerAssessment{}, simerr.InvalidInput("field %s is not numeric", f.key)
		}
	}
	if z, ok := vals["Zone"]; ok {
		s, ok := z.(string)
		if !ok {
			return core.DangerAssessment{}, simerr.InvalidInput("field Zone is not a string")
		}
		in.Zone = s
	}

	return m.Rate(in), nil
}
