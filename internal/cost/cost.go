// Package cost maps fuel consumption to a monetary cost breakdown.
package cost

import (
	"math"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/simerr"
)

// Model is the stateless cost estimator.
type Model struct {
	fuelUnitCost float64
}

// NewModel creates a cost model with the given unit price.
func NewModel(fuelUnitCost float64) *Model {
	return &Model{fuelUnitCost: fuelUnitCost}
}

// NewModelFromConfig creates a cost model from viper-backed configuration.
func NewModelFromConfig() *Model {
	return NewModel(config.GetFloat("cost.fuelUnitCost"))
}

// Optimize returns the cost breakdown for the given fuel usage, rounded to
// 2 decimals. Total cost currently equals fuel cost; the split exists so
// future cost components slot in without changing callers.
func (m *Model) Optimize(fuelUsed float64) (core.CostEstimate, error) {
	if fuelUsed < 0 || math.IsNaN(fuelUsed) {
		return core.CostEstimate{}, simerr.DomainRange("fuel used must be non-negative, got %v", fuelUsed)
	}

	fuelCost := math.Round(fuelUsed*m.fuelUnitCost*100) / 100
	return core.CostEstimate{
		FuelCost:  fuelCost,
		TotalCost: fuelCost,
	}, nil
}
