package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{359.9, 359.9},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-360, 0},
		{725, 5},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeHeading(tt.in), 1e-9, "heading %v", tt.in)
	}
}

func TestSectorStatsFrom(t *testing.T) {
	stats := SectorStatsFrom(PerceptionStats{
		ThreatsLeft:          3,
		ThreatsRight:         1,
		FrontConeCount:       2,
		AngleWeightedDensity: 0.25,
	})

	assert.Equal(t, 3.0, stats.ThreatsLeft)
	assert.Equal(t, 1.0, stats.ThreatsRight)
	assert.Equal(t, 2.0, stats.FrontConeCount)
	assert.Equal(t, 0.25, stats.AngleWeightedDensity)
	assert.False(t, math.IsNaN(stats.ThreatsLeft))
}
