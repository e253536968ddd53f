// Package core holds the plain value types passed between simulation stages.
// Types here carry no behavior beyond small accessors so that every stage can
// depend on them without import cycles.
package core

import (
	"math"
	"time"

	"github.com/peterstace/simplefeatures/geom"
)

// ThreatObject is a nearby moving obstacle. Position is on the simulation
// plane; Size and Velocity are optional and only informational.
type ThreatObject struct {
	Position geom.XY
	Size     float64
	Velocity float64
}

// CarState is the vehicle's kinematic state, carried across the ticks of a
// single trip. Policies never mutate it in place; they return a new value and
// the orchestrator decides whether to carry it forward.
type CarState struct {
	// Heading in degrees, always normalized into [0,360).
	Heading float64
	// AngularVelocity in degrees per second. Unbounded, carried exactly
	// across ticks.
	AngularVelocity float64
}

// NormalizeHeading wraps a heading in degrees into [0,360).
func NormalizeHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// PerceptionStats is the spatial summary derived from one tick of perception.
// Recomputed every tick and immutable once produced.
type PerceptionStats struct {
	ThreatCount int
	// MinDistance is +Inf when nothing is visible.
	MinDistance float64
	// AvgDistance is NaN when nothing is visible.
	AvgDistance float64
	Density     float64

	FrontConeCount       int
	ThreatsLeft          int
	ThreatsRight         int
	AngleWeightedDensity float64
	// AvgAngleOffset is the mean absolute angular offset of visible threats
	// from the facing direction, in degrees. NaN when nothing is visible.
	AvgAngleOffset float64

	// Zone is the coarse risk-area classification: green, yellow or red.
	Zone string
}

// SectorStats is the subset of perception fields the trajectory policies
// consume. Fields are NaN when the source record did not carry them, which
// the strict policy rejects and the heuristic policy defaults to zero.
type SectorStats struct {
	ThreatsLeft          float64
	ThreatsRight         float64
	FrontConeCount       float64
	AngleWeightedDensity float64
}

// SectorStatsFrom builds SectorStats from fully-populated perception output.
func SectorStatsFrom(ps PerceptionStats) SectorStats {
	return SectorStats{
		ThreatsLeft:          float64(ps.ThreatsLeft),
		ThreatsRight:         float64(ps.ThreatsRight),
		FrontConeCount:       float64(ps.FrontConeCount),
		AngleWeightedDensity: ps.AngleWeightedDensity,
	}
}

// DangerAssessment is the per-tick risk evaluation.
type DangerAssessment struct {
	// Score is clamped to [0,1].
	Score float64
	// Label is Low, Medium or High.
	Label string
}

// VehicleSpecs are the static physical properties of the car.
type VehicleSpecs struct {
	WeightKg        float64
	ThrustKN        float64
	PowerCapacityKW float64
	EngineClass     string
	MomentOfInertia float64
}

// CostEstimate is the monetary cost breakdown of one tick.
type CostEstimate struct {
	FuelCost  float64
	TotalCost float64
}

// TripResult is the composite per-tick verdict. Appended to the run's result
// collection and never mutated afterward.
type TripResult struct {
	// TripScore is clamped to [0,1] and forced to exactly 0 on crash.
	TripScore  float64
	Evaluation string
	Comments   string

	Crash         bool
	CrashSeverity string
	NoEscapeZone  bool
}

// ResultRecord is the flat merged output of one simulation tick.
type ResultRecord struct {
	Tick int `json:"tick"`

	DangerScore float64 `json:"dangerScore"`
	DangerLabel string  `json:"dangerLabel"`

	FuelUsed  float64 `json:"fuelUsed"`
	FuelCost  float64 `json:"fuelCost"`
	TotalCost float64 `json:"totalCost"`

	CurrentHeading   float64 `json:"currentHeading"`
	PredictedHeading float64 `json:"predictedHeading"`
	TurnDirection    string  `json:"turnDirection"`
	TurnAngle        float64 `json:"turnAngle"`
	AppliedTorque    float64 `json:"appliedTorque,omitempty"`
	AngularVelocity  float64 `json:"angularVelocity,omitempty"`

	TripScore     float64 `json:"tripScore"`
	Evaluation    string  `json:"evaluation"`
	Comments      string  `json:"comments"`
	Crash         bool    `json:"crash"`
	CrashSeverity string  `json:"crashSeverity,omitempty"`
	NoEscapeZone  bool    `json:"noEscapeZone"`

	// Set only when a crash predictor capability is attached to the run.
	CrashPredicted   *int     `json:"crashPredicted,omitempty"`
	CrashProbability *float64 `json:"crashProbability,omitempty"`
}

// Run identifies one batch execution for storage backends.
type Run struct {
	ID        uint
	Name      string
	Policy    string
	Seed      uint64
	StartedAt time.Time
}
