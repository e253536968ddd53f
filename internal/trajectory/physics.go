package trajectory

import (
	"math"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/simerr"
)

// PhysicsPolicy integrates torque against rotational inertia. Momentum lives
// in the returned CarState's angular velocity, which the orchestrator carries
// to the next tick; the policy itself holds no per-trip state and is safe to
// share across concurrent trips.
type PhysicsPolicy struct {
	momentOfInertia float64
	maxTorque       float64
	deltaTime       float64
}

// NewPhysicsPolicy creates the physics policy.
// deltaTime is the simulation time step in seconds.
func NewPhysicsPolicy(cfg config.TrajectoryConfig, deltaTime float64) *PhysicsPolicy {
	return &PhysicsPolicy{
		momentOfInertia: cfg.MomentOfInertia,
		maxTorque:       cfg.MaxTorque,
		deltaTime:       deltaTime,
	}
}

// Name identifies the policy in run records.
func (p *PhysicsPolicy) Name() string { return "physics" }

// Predict applies the torque decision rule and integrates one time step.
//
// Torque direction: no front-cone threats applies none; the heavier sector
// pushes the car toward the lighter one; an exact tie counters the sign of
// the current angular velocity. At exactly zero angular velocity the tie
// resolves to positive torque, a left turn; the convention is fixed so runs
// stay reproducible across platforms.
//
// This policy is strict about its inputs: a NaN sector field is a broken
// upstream contract and fails with simerr.ErrMissingField.
func (p *PhysicsPolicy) Predict(state core.CarState, _ float64, stats core.SectorStats) (core.CarState, Diagnostics, error) {
	required := []struct {
		name string
		val  float64
	}{
		{"Threats_Left_Sector", stats.ThreatsLeft},
		{"Threats_Right_Sector", stats.ThreatsRight},
		{"FOV_Front_Cone_Threat_Count", stats.FrontConeCount},
	}
	for _, f := range required {
		if math.IsNaN(f.val) {
			return state, Diagnostics{}, simerr.MissingField(f.name)
		}
	}

	var torque float64
	var direction string
	switch {
	case stats.FrontConeCount == 0:
		torque = 0
		direction = DirectionNone
	case stats.ThreatsRight > stats.ThreatsLeft:
		torque = p.maxTorque
		direction = DirectionLeft
	case stats.ThreatsLeft > stats.ThreatsRight:
		torque = -p.maxTorque
		direction = DirectionRight
	default:
		// Tie: counter the existing spin. Zero velocity turns left.
		if state.AngularVelocity > 0 {
			torque = -p.maxTorque
		} else {
			torque = p.maxTorque
		}
		direction = DirectionMomentum
	}

	accel := torque / p.momentOfInertia
	next := core.CarState{
		AngularVelocity: state.AngularVelocity + accel*p.deltaTime,
	}
	next.Heading = core.NormalizeHeading(state.Heading + next.AngularVelocity*p.deltaTime)

	diag := Diagnostics{
		Direction:           direction,
		TurnAngle:           turnMagnitude(state.Heading, next.Heading),
		AppliedTorque:       torque,
		AngularAcceleration: accel,
		Adjusted:            torque != 0,
	}
	return next, diag, nil
}
