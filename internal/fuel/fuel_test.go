package fuel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/simerr"
)

func testConfig() config.FuelConfig {
	return config.FuelConfig{
		BaseRate:              0.04,
		OptimalThrust:         60.0,
		PowerPenaltyThreshold: 300.0,
		EngineEfficiency: map[string]float64{
			"ion-a":    0.7,
			"ion-b":    0.75,
			"fusion-b": 1.0,
			"fusion-c": 1.1,
			"plasma-a": 1.3,
		},
	}
}

func specs() core.VehicleSpecs {
	return core.VehicleSpecs{
		WeightKg:        1200,
		ThrustKN:        60,
		PowerCapacityKW: 100,
		EngineClass:     "Fusion-B",
		MomentOfInertia: 1.0,
	}
}

func TestEstimate_BaselineAtOptimalThrust(t *testing.T) {
	m := NewModel(testConfig())

	// At optimal thrust every multiplier is 1: 0.04 * 1200/60 = 0.8.
	got, err := m.Estimate(specs(), 0.0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.8, got)
}

func TestEstimate_NonPositiveThrust(t *testing.T) {
	m := NewModel(testConfig())

	s := specs()
	s.ThrustKN = 0
	_, err := m.Estimate(s, 0, 0)
	assert.ErrorIs(t, err, simerr.ErrDomainRange)

	s.ThrustKN = -10
	_, err = m.Estimate(s, 0, 0)
	assert.ErrorIs(t, err, simerr.ErrDomainRange)
}

func TestEstimate_MonotonicInWeight(t *testing.T) {
	m := NewModel(testConfig())

	prev := -1.0
	for w := 500.0; w <= 5000; w += 250 {
		s := specs()
		s.WeightKg = w
		got, err := m.Estimate(s, 0.5, 15)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev, "weight %v", w)
		prev = got
	}
}

func TestEstimate_ThrustEfficiencyCurve(t *testing.T) {
	m := NewModel(testConfig())

	// Deviating from the optimal thrust costs more per unit of thrust ratio.
	atOptimal, err := m.Estimate(specs(), 0, 0)
	require.NoError(t, err)

	s := specs()
	s.ThrustKN = 100
	s.WeightKg = 2000 // keep weight/thrust ratio at 1200/60
	offOptimal, err := m.Estimate(s, 0, 0)
	require.NoError(t, err)

	// deviation 40: multiplier 1 + 0.0015*1600 = 3.4
	assert.InDelta(t, atOptimal*3.4, offOptimal, 0.001)
}

func TestEstimate_EngineClassFactors(t *testing.T) {
	m := NewModel(testConfig())

	usageFor := func(class string) float64 {
		s := specs()
		s.EngineClass = class
		got, err := m.Estimate(s, 0, 0)
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, 0.56, usageFor("Ion-A"))    // 0.8 * 0.7
	assert.Equal(t, 0.88, usageFor("Fusion-C")) // 0.8 * 1.1
	assert.Equal(t, 1.04, usageFor("Plasma-A")) // 0.8 * 1.3
	// Unknown classes fall back to a neutral factor.
	assert.Equal(t, 0.8, usageFor("Warp-X"))
}

func TestEstimate_PowerPenalty(t *testing.T) {
	m := NewModel(testConfig())

	s := specs()
	s.PowerCapacityKW = 300
	got, err := m.Estimate(s, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.8*1.1, got, 0.001)

	s.PowerCapacityKW = 299.9
	got, err = m.Estimate(s, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.8, got)
}

func TestEstimate_RiskMultiplier(t *testing.T) {
	m := NewModel(testConfig())

	tests := []struct {
		danger float64
		want   float64
	}{
		{0.0, 0.8},
		{0.4, 0.8},   // boundary stays calm
		{0.41, 0.96}, // 0.8 * 1.2
		{0.75, 0.96}, // boundary stays moderate
		{0.76, 1.2},  // 0.8 * 1.5
	}

	for _, tt := range tests {
		got, err := m.Estimate(specs(), tt.danger, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "danger %v", tt.danger)
	}
}

func TestEstimate_TurnCost(t *testing.T) {
	m := NewModel(testConfig())

	// 30 degree turn with moi 1: 1 + 0.003*30 = 1.09.
	got, err := m.Estimate(specs(), 0, 30)
	require.NoError(t, err)
	assert.InDelta(t, 0.8*1.09, got, 0.001)

	// Turn direction does not matter.
	neg, err := m.Estimate(specs(), 0, -30)
	require.NoError(t, err)
	assert.Equal(t, got, neg)

	// Higher inertia makes the same turn dearer.
	s := specs()
	s.MomentOfInertia = 2.0
	heavier, err := m.Estimate(s, 0, 30)
	require.NoError(t, err)
	assert.Greater(t, heavier, got)

	// Zero inertia falls back to the neutral factor instead of erasing the
	// turn cost entirely.
	s.MomentOfInertia = 0
	zeroMoi, err := m.Estimate(s, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, got, zeroMoi)
}
