package trajectory

import (
	"math"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/randengine"
)

// HeuristicPolicy picks a turn magnitude from the angle-weighted threat
// density and a direction from sector imbalance, falling back to the momentum
// implied by the previous heading and finally to a seeded coin flip. It
// carries no angular velocity between ticks.
type HeuristicPolicy struct {
	baseTurn          float64
	turnAmplifier     float64
	maxTurnAngle      float64
	momentumThreshold float64
	rng               *randengine.Engine
}

// NewHeuristicPolicy creates the heuristic policy. The engine resolves the
// direction tie-break; inject a fixed seed for reproducible batches.
func NewHeuristicPolicy(cfg config.TrajectoryConfig, rng *randengine.Engine) *HeuristicPolicy {
	return &HeuristicPolicy{
		baseTurn:          cfg.BaseTurn,
		turnAmplifier:     cfg.TurnAmplifier,
		maxTurnAngle:      cfg.MaxTurnAngle,
		momentumThreshold: cfg.MomentumThresholdDeg,
		rng:               rng,
	}
}

// Name identifies the policy in run records.
func (p *HeuristicPolicy) Name() string { return "heuristic" }

// Fork returns a copy of the policy drawing from its own random stream. The
// copy's tie-breaks depend only on the injected seed and the stream number,
// never on draws made through the parent or other forks.
func (p *HeuristicPolicy) Fork(stream uint64) Policy {
	forked := *p
	forked.rng = p.rng.Fork(stream)
	return &forked
}

// orZero substitutes zero for absent telemetry fields. This policy operates
// on best-effort data and never rejects a tick.
func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Predict computes the next heading.
//
// The signed delta between the current and previous heading, wrapped into
// (-180,180], infers a momentum bias once it exceeds the threshold. With no
// front-cone threats the heading is unchanged. Otherwise the turn magnitude
// is baseTurn + density*amplifier (rounded, capped at maxTurnAngle) and the
// direction is away from the heavier sector, then the momentum bias, then a
// uniform choice from the injected engine.
func (p *HeuristicPolicy) Predict(state core.CarState, prevHeading float64, stats core.SectorStats) (core.CarState, Diagnostics, error) {
	left := orZero(stats.ThreatsLeft)
	right := orZero(stats.ThreatsRight)
	front := orZero(stats.FrontConeCount)
	density := orZero(stats.AngleWeightedDensity)

	momentumBias := ""
	delta := math.Mod(state.Heading-prevHeading, 360)
	if delta > 180 {
		delta -= 360
	} else if delta < -180 {
		delta += 360
	}
	if delta > p.momentumThreshold {
		momentumBias = DirectionRight
	} else if delta < -p.momentumThreshold {
		momentumBias = DirectionLeft
	}

	if front == 0 {
		return state, Diagnostics{
			Direction:    DirectionNone,
			MomentumBias: momentumBias,
		}, nil
	}

	turn := math.Round(p.baseTurn + density*p.turnAmplifier)
	turn = math.Min(turn, p.maxTurnAngle)

	var direction string
	switch {
	case right > left:
		direction = DirectionLeft
	case left > right:
		direction = DirectionRight
	case momentumBias != "":
		direction = momentumBias
	default:
		direction = randengine.Choice(p.rng, DirectionLeft, DirectionRight)
	}

	next := state
	if direction == DirectionLeft {
		next.Heading = core.NormalizeHeading(state.Heading - turn)
	} else {
		next.Heading = core.NormalizeHeading(state.Heading + turn)
	}

	return next, Diagnostics{
		Direction:    direction,
		TurnAngle:    turn,
		MomentumBias: momentumBias,
		Adjusted:     true,
	}, nil
}
