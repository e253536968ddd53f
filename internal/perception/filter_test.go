package perception

import (
	"math"
	"testing"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/simerr"
)

func testConfig() config.PerceptionConfig {
	return config.PerceptionConfig{
		FOVDeg:             120.0,
		ViewRadius:         50.0,
		FrontConeDeg:       60.0,
		ZoneRedDistance:    5.0,
		ZoneYellowDistance: 15.0,
	}
}

func at(x, y float64) core.ThreatObject {
	return core.ThreatObject{Position: geom.XY{X: x, Y: y}}
}

func TestFilter_VisibilityBoundaries(t *testing.T) {
	f := NewFilter(testConfig())
	car := geom.XY{X: 0, Y: 0}

	tests := []struct {
		name    string
		threat  core.ThreatObject
		facing  float64
		visible bool
	}{
		{"dead ahead in range", at(10, 0), 0, true},
		{"exactly at view radius", at(50, 0), 0, true},
		{"just beyond view radius", at(50.001, 0), 0, false},
		{"near the FOV edge", at(10*math.Cos(59.9*math.Pi/180), 10*math.Sin(59.9*math.Pi/180)), 0, true},
		{"past the FOV edge", at(10*math.Cos(61*math.Pi/180), 10*math.Sin(61*math.Pi/180)), 0, false},
		{"behind the car", at(-10, 0), 0, false},
		{"visible when facing it", at(-10, 0), 180, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, stats, err := f.Filter([]core.ThreatObject{tt.threat}, car, tt.facing)
			require.NoError(t, err)
			if tt.visible {
				assert.Len(t, visible, 1)
				assert.Equal(t, 1, stats.ThreatCount)
			} else {
				assert.Empty(t, visible)
				assert.Equal(t, 0, stats.ThreatCount)
			}
		})
	}
}

func TestFilter_EmptyVisibleSet(t *testing.T) {
	f := NewFilter(testConfig())

	visible, stats, err := f.Filter([]core.ThreatObject{}, geom.XY{}, 0)
	require.NoError(t, err)
	assert.Empty(t, visible)
	assert.Equal(t, 0, stats.ThreatCount)
	assert.True(t, math.IsInf(stats.MinDistance, 1))
	assert.True(t, math.IsNaN(stats.AvgDistance))
	assert.Zero(t, stats.Density)
	assert.Equal(t, "green", stats.Zone)
}

func TestFilter_NilThreats(t *testing.T) {
	f := NewFilter(testConfig())

	_, _, err := f.Filter(nil, geom.XY{}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, simerr.ErrInvalidInput)
}

func TestFilter_NonFinitePosition(t *testing.T) {
	f := NewFilter(testConfig())

	_, _, err := f.Filter([]core.ThreatObject{at(math.NaN(), 3)}, geom.XY{}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, simerr.ErrInvalidInput)

	_, _, err = f.Filter([]core.ThreatObject{at(math.Inf(1), 3)}, geom.XY{}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, simerr.ErrInvalidInput)
}

func TestFilter_Stats(t *testing.T) {
	f := NewFilter(testConfig())
	car := geom.XY{X: 0, Y: 0}

	// Facing +x: one threat dead ahead at 10, one 45 degrees left at ~14.14,
	// one 50 degrees right at 20, one behind (invisible).
	threats := []core.ThreatObject{
		at(10, 0),
		at(10, 10),
		at(20*math.Cos(-50*math.Pi/180), 20*math.Sin(-50*math.Pi/180)),
		at(-30, 0),
	}

	visible, stats, err := f.Filter(threats, car, 0)
	require.NoError(t, err)
	require.Len(t, visible, 3)

	assert.Equal(t, 3, stats.ThreatCount)
	assert.InDelta(t, 10.0, stats.MinDistance, 1e-9)
	assert.InDelta(t, (10+math.Sqrt(200)+20)/3, stats.AvgDistance, 1e-9)

	// Only the dead-ahead threat sits inside the 30-degree half front cone.
	assert.Equal(t, 1, stats.FrontConeCount)
	// The dead-ahead threat has offset 0 and counts as left.
	assert.Equal(t, 2, stats.ThreatsLeft)
	assert.Equal(t, 1, stats.ThreatsRight)

	sectorArea := (120.0 / 360.0) * math.Pi * 50 * 50
	assert.InDelta(t, 3/sectorArea, stats.Density, 1e-12)
	wantWeighted := (1.0 + (1 - 45.0/60.0) + (1 - 50.0/60.0)) / sectorArea
	assert.InDelta(t, wantWeighted, stats.AngleWeightedDensity, 1e-12)
	assert.InDelta(t, (0.0+45.0+50.0)/3, stats.AvgAngleOffset, 1e-9)

	assert.Equal(t, "yellow", stats.Zone)
}

func TestFilter_ZoneClassification(t *testing.T) {
	f := NewFilter(testConfig())
	car := geom.XY{X: 0, Y: 0}

	tests := []struct {
		name string
		dist float64
		zone string
	}{
		{"red inside threshold", 3, "red"},
		{"red exactly at threshold", 5, "red"},
		{"yellow", 10, "yellow"},
		{"yellow exactly at threshold", 15, "yellow"},
		{"green", 30, "green"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stats, err := f.Filter([]core.ThreatObject{at(tt.dist, 0)}, car, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.zone, stats.Zone)
		})
	}
}
