// Package record defines the per-tick input schema consumed by the
// orchestrator and its CSV boundary adapter. Data cleaning beyond header
// mapping is out of scope here; absent or unparseable numeric fields become
// NaN and each downstream stage applies its own strictness.
package record

import (
	"math"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
)

// Record is one input row: the perception snapshot, navigation state and
// vehicle specs for a single tick.
type Record struct {
	FOVThreatCount           float64 `json:"FOV_Threat_Count"`
	MinDistanceInFOV         float64 `json:"Min_Distance_In_FOV"`
	FOVDensity               float64 `json:"FOV_Density"`
	FOVFrontConeThreatCount  float64 `json:"FOV_Front_Cone_Threat_Count"`
	AngleWeightedDensity     float64 `json:"Angle_Weighted_Density"`
	ThreatsLeftSector        float64 `json:"Threats_Left_Sector"`
	ThreatsRightSector       float64 `json:"Threats_Right_Sector"`
	AverageThreatAngleOffset float64 `json:"Average_Threat_Angle_Offset"`

	HeadingDeg         float64 `json:"heading_deg"`
	PreviousHeadingDeg float64 `json:"previous_heading_deg"`

	ChassisWeightKg  float64 `json:"chassis_weight_kg"`
	EngineWeightKg   float64 `json:"engine_weight_kg"`
	ThrusterWeightKg float64 `json:"thruster_weight_kg"`
	FuelWeightKg     float64 `json:"fuel_weight_kg"`
	TotalThrustKN    float64 `json:"total_thrust_kN"`
	StartingFuelKWh  float64 `json:"starting_fuel_kWh"`
	MomentOfInertia  float64 `json:"moment_of_inertia"`

	EngineClass string `json:"engine_class"`
	Zone        string `json:"Zone"`
}

// New returns a record with every numeric field set to NaN, the marker for
// "not carried by the source row".
func New() Record {
	nan := math.NaN()
	return Record{
		FOVThreatCount:           nan,
		MinDistanceInFOV:         nan,
		FOVDensity:               nan,
		FOVFrontConeThreatCount:  nan,
		AngleWeightedDensity:     nan,
		ThreatsLeftSector:        nan,
		ThreatsRightSector:       nan,
		AverageThreatAngleOffset: nan,
		HeadingDeg:               nan,
		PreviousHeadingDeg:       nan,
		ChassisWeightKg:          nan,
		EngineWeightKg:           nan,
		ThrusterWeightKg:         nan,
		FuelWeightKg:             nan,
		TotalThrustKN:            nan,
		StartingFuelKWh:          nan,
		MomentOfInertia:          nan,
	}
}

// SectorStats extracts the trajectory policy inputs. NaN fields pass through
// so the policies can enforce their own strictness.
func (r Record) SectorStats() core.SectorStats {
	return core.SectorStats{
		ThreatsLeft:          r.ThreatsLeftSector,
		ThreatsRight:         r.ThreatsRightSector,
		FrontConeCount:       r.FOVFrontConeThreatCount,
		AngleWeightedDensity: r.AngleWeightedDensity,
	}
}

// VehicleSpecs assembles the vehicle's physical properties. Total weight is
// the sum of the four component weights, with NaN components treated as zero.
func (r Record) VehicleSpecs() core.VehicleSpecs {
	weight := zeroIfNaN(r.ChassisWeightKg) +
		zeroIfNaN(r.EngineWeightKg) +
		zeroIfNaN(r.ThrusterWeightKg) +
		zeroIfNaN(r.FuelWeightKg)

	moi := r.MomentOfInertia
	if math.IsNaN(moi) {
		moi = 1.0
	}

	return core.VehicleSpecs{
		WeightKg:        weight,
		ThrustKN:        r.TotalThrustKN,
		PowerCapacityKW: zeroIfNaN(r.StartingFuelKWh),
		EngineClass:     r.EngineClass,
		MomentOfInertia: moi,
	}
}

// Heading returns the record's heading, defaulting to 0 when absent.
func (r Record) Heading() float64 {
	return zeroIfNaN(r.HeadingDeg)
}

// PreviousHeading returns the previous tick's heading, defaulting to the
// current heading when absent (no inferred momentum).
func (r Record) PreviousHeading() float64 {
	if math.IsNaN(r.PreviousHeadingDeg) {
		return r.Heading()
	}
	return r.PreviousHeadingDeg
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
