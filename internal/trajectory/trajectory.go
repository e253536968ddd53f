// Package trajectory holds the two interchangeable heading-control policies.
// Both consume threat sector counts and produce a new car state plus turn
// diagnostics; neither mutates the caller's state.
package trajectory

import (
	"math"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
)

// Turn directions reported in diagnostics.
const (
	DirectionNone     = "none"
	DirectionLeft     = "left"
	DirectionRight    = "right"
	DirectionMomentum = "momentum"
)

// Diagnostics describes the turn decision made for one tick.
type Diagnostics struct {
	// Direction the correction turned toward, or "none"/"momentum".
	Direction string
	// TurnAngle is the magnitude of the heading change in degrees, >= 0.
	TurnAngle float64

	// Physics policy only.
	AppliedTorque       float64
	AngularAcceleration float64

	// Heuristic policy only: inferred momentum bias, "" when none.
	MomentumBias string

	// Adjusted reports whether any threat response was applied.
	Adjusted bool
}

// Policy is the contract shared by both heading-control policies.
// prevHeading is the previous tick's heading; callers without one pass the
// current heading. The physics policy ignores it and carries momentum through
// the returned state's angular velocity instead.
type Policy interface {
	Name() string
	Predict(state core.CarState, prevHeading float64, stats core.SectorStats) (core.CarState, Diagnostics, error)
}

// Forkable is implemented by policies whose randomness can be split into
// independent streams. Prediction through a fork is a pure function of the
// base seed and the stream number, so parallel callers that fork one stream
// per record get results independent of goroutine interleaving.
type Forkable interface {
	Fork(stream uint64) Policy
}

// turnMagnitude returns the smallest-angle distance between two headings,
// in [0,180].
func turnMagnitude(from, to float64) float64 {
	d := math.Mod(to-from+540, 360) - 180
	return math.Abs(d)
}
