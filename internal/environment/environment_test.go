package environment

import (
	"math"
	"testing"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/randengine"
)

func TestPlaceCar_KeepsMargin(t *testing.T) {
	env := New(100, 80, 50, randengine.New(1))

	for i := 0; i < 100; i++ {
		env.PlaceCar()
		pos := env.CarPosition()
		assert.GreaterOrEqual(t, pos.X, 10.0)
		assert.LessOrEqual(t, pos.X, 90.0)
		assert.GreaterOrEqual(t, pos.Y, 10.0)
		assert.LessOrEqual(t, pos.Y, 70.0)
		assert.GreaterOrEqual(t, env.Heading(), 0.0)
		assert.Less(t, env.Heading(), 360.0)
	}
}

func TestGenerateObstacles_WithinPerceptionRadius(t *testing.T) {
	env := New(200, 200, 50, randengine.New(2))
	env.PlaceCar()
	env.GenerateObstacles(25)

	obstacles := env.Obstacles()
	require.Len(t, obstacles, 25)

	car := env.CarPosition()
	for _, o := range obstacles {
		dist := math.Hypot(o.Position.X-car.X, o.Position.Y-car.Y)
		assert.GreaterOrEqual(t, dist, 1.0-1e-9)
		assert.LessOrEqual(t, dist, 50.0)
	}
}

func TestGenerateObstacles_ReplacesPreviousSet(t *testing.T) {
	env := New(100, 100, 50, randengine.New(3))
	env.PlaceCar()

	env.GenerateObstacles(10)
	env.GenerateObstacles(4)
	assert.Len(t, env.Obstacles(), 4)
}

func TestCheckForCrash(t *testing.T) {
	env := New(100, 100, 50, randengine.New(4))
	env.carPos = geom.XY{X: 50, Y: 50}
	env.headingDeg = 0 // facing +x

	// Obstacle directly ahead at distance 5.
	env.obstacles = []core.ThreatObject{
		{Position: geom.XY{X: 55, Y: 50}},
	}

	assert.True(t, env.CheckForCrash(5, 1.0))
	assert.True(t, env.CheckForCrash(4.5, 1.0))
	// Projection point too far from the obstacle.
	assert.False(t, env.CheckForCrash(2, 1.0))
	// Facing away from it.
	env.headingDeg = 180
	assert.False(t, env.CheckForCrash(5, 1.0))
}

func TestCheckForCrash_NoObstacles(t *testing.T) {
	env := New(100, 100, 50, randengine.New(5))
	env.PlaceCar()
	assert.False(t, env.CheckForCrash(5, 1.0))
}

func TestReproducibility(t *testing.T) {
	build := func(seed uint64) (geom.XY, float64, []core.ThreatObject) {
		env := New(100, 100, 50, randengine.New(seed))
		env.PlaceCar()
		env.GenerateObstacles(8)
		return env.CarPosition(), env.Heading(), env.Obstacles()
	}

	p1, h1, o1 := build(42)
	p2, h2, o2 := build(42)
	assert.Equal(t, p1, p2)
	assert.Equal(t, h1, h2)
	assert.Equal(t, o1, o2)
}
