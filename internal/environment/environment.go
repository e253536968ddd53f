// Package environment provides a minimal synthetic crash environment: a car
// placed on a bounded plane surrounded by randomly scattered obstacles, with
// a single forward-projected point check for collision labeling.
package environment

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/randengine"
)

// Environment holds one synthetic scene. Not safe for concurrent use; give
// each trip its own instance.
type Environment struct {
	gridWidth        float64
	gridHeight       float64
	perceptionRadius float64
	rng              *randengine.Engine

	carPos     geom.XY
	headingDeg float64
	obstacles  []core.ThreatObject
}

// New creates an environment on a gridWidth x gridHeight plane. Obstacles are
// generated within perceptionRadius of the car.
func New(gridWidth, gridHeight, perceptionRadius float64, rng *randengine.Engine) *Environment {
	return &Environment{
		gridWidth:        gridWidth,
		gridHeight:       gridHeight,
		perceptionRadius: perceptionRadius,
		rng:              rng,
	}
}

// PlaceCar positions the car at a random location with a random heading,
// keeping a 10-unit margin from the plane's edges.
func (e *Environment) PlaceCar() {
	e.carPos = geom.XY{
		X: 10 + e.rng.Float64()*(e.gridWidth-20),
		Y: 10 + e.rng.Float64()*(e.gridHeight-20),
	}
	e.headingDeg = e.rng.Float64() * 360
}

// GenerateObstacles scatters count obstacles at random bearings and distances
// within the perception radius of the car.
func (e *Environment) GenerateObstacles(count int) {
	e.obstacles = make([]core.ThreatObject, 0, count)
	for i := 0; i < count; i++ {
		angle := e.rng.Float64() * 360 * math.Pi / 180
		distance := 1 + e.rng.Float64()*(e.perceptionRadius-1)
		e.obstacles = append(e.obstacles, core.ThreatObject{
			Position: geom.XY{
				X: e.carPos.X + distance*math.Cos(angle),
				Y: e.carPos.Y + distance*math.Sin(angle),
			},
		})
	}
}

// CheckForCrash projects a point forwardDistance units along the heading and
// reports whether any obstacle lies within collisionRadius of it.
func (e *Environment) CheckForCrash(forwardDistance, collisionRadius float64) bool {
	rad := e.headingDeg * math.Pi / 180
	fx := e.carPos.X + forwardDistance*math.Cos(rad)
	fy := e.carPos.Y + forwardDistance*math.Sin(rad)
	for _, o := range e.obstacles {
		if math.Hypot(fx-o.Position.X, fy-o.Position.Y) < collisionRadius {
			return true
		}
	}
	return false
}

// CarPosition returns the car's current position.
func (e *Environment) CarPosition() geom.XY { return e.carPos }

// Heading returns the car's heading in degrees.
func (e *Environment) Heading() float64 { return e.headingDeg }

// Obstacles returns the generated obstacle set.
func (e *Environment) Obstacles() []core.ThreatObject { return e.obstacles }
