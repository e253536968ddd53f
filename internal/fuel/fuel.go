// Package fuel estimates per-tick fuel consumption from the vehicle's
// physical specs, the current danger score and the applied turn.
package fuel

import (
	"math"
	"strings"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/simerr"
)

// Model is the stateless fuel usage estimator.
type Model struct {
	cfg config.FuelConfig
}

// NewModel creates a fuel model with the given constants.
func NewModel(cfg config.FuelConfig) *Model {
	return &Model{cfg: cfg}
}

// thrustEfficiency models the penalty for deviating from the optimal thrust.
// Non-positive thrust pins the curve at its severe-inefficiency ceiling.
func (m *Model) thrustEfficiency(thrust float64) float64 {
	if thrust <= 0 {
		return 2.0
	}
	d := thrust - m.cfg.OptimalThrust
	return 1 + 0.0015*d*d
}

// powerPenalty applies a mild inefficiency once power capacity gets large.
func (m *Model) powerPenalty(power float64) float64 {
	if power >= m.cfg.PowerPenaltyThreshold {
		return 1.1
	}
	return 1.0
}

// riskMultiplier scales consumption with the environmental danger score.
func riskMultiplier(dangerScore float64) float64 {
	switch {
	case dangerScore > 0.75:
		return 1.5
	case dangerScore > 0.4:
		return 1.2
	default:
		return 1.0
	}
}

// Estimate returns the fuel used this tick, rounded to 3 decimals.
//
// The base term divides weight by thrust, so non-positive thrust is rejected
// with simerr.ErrDomainRange rather than silently propagating infinities.
// turnAngle is the turn magnitude in degrees; a non-zero turn costs extra in
// proportion to the vehicle's moment of inertia.
func (m *Model) Estimate(specs core.VehicleSpecs, dangerScore float64, turnAngle float64) (float64, error) {
	if specs.ThrustKN <= 0 {
		return 0, simerr.DomainRange("thrust must be positive, got %v kN", specs.ThrustKN)
	}

	// table keys are lowercased to match viper's map key handling
	engineFactor := 1.0
	if f, ok := m.cfg.EngineEfficiency[strings.ToLower(specs.EngineClass)]; ok {
		engineFactor = f
	}

	usage := m.cfg.BaseRate *
		(specs.WeightKg / specs.ThrustKN) *
		m.thrustEfficiency(specs.ThrustKN) *
		engineFactor *
		m.powerPenalty(specs.PowerCapacityKW) *
		riskMultiplier(dangerScore)

	if turnAngle != 0 {
		moi := specs.MomentOfInertia
		if moi == 0 {
			moi = 1.0
		}
		usage *= 1 + 0.003*math.Abs(turnAngle)*moi
	}

	return math.Round(usage*1000) / 1000, nil
}
