package config

import (
	"strings"

	"github.com/spf13/viper"
)

// PerceptionConfig holds the geometric filter settings.
type PerceptionConfig struct {
	FOVDeg             float64
	ViewRadius         float64
	FrontConeDeg       float64
	ZoneRedDistance    float64
	ZoneYellowDistance float64
}

// Perception builds the perception settings from viper.
func Perception() PerceptionConfig {
	return PerceptionConfig{
		FOVDeg:             viper.GetFloat64("perception.fovDeg"),
		ViewRadius:         viper.GetFloat64("perception.viewRadius"),
		FrontConeDeg:       viper.GetFloat64("perception.frontConeDeg"),
		ZoneRedDistance:    viper.GetFloat64("perception.zoneRedDistance"),
		ZoneYellowDistance: viper.GetFloat64("perception.zoneYellowDistance"),
	}
}

// DangerConfig holds the danger rating weights and multipliers.
type DangerConfig struct {
	ThreatCountWeight  float64
	MinDistanceWeight  float64
	FOVDensityWeight   float64
	FrontConeWeight    float64
	AngleDensityWeight float64
	ZoneMultipliers    map[string]float64
	MaxAngleBonus      float64
}

// Danger builds the danger rating settings from viper.
func Danger() DangerConfig {
	return DangerConfig{
		ThreatCountWeight:  viper.GetFloat64("danger.weights.threatCount"),
		MinDistanceWeight:  viper.GetFloat64("danger.weights.minDistance"),
		FOVDensityWeight:   viper.GetFloat64("danger.weights.fovDensity"),
		FrontConeWeight:    viper.GetFloat64("danger.weights.frontCone"),
		AngleDensityWeight: viper.GetFloat64("danger.weights.angleDensity"),
		ZoneMultipliers: map[string]float64{
			"green":  viper.GetFloat64("danger.zoneMultipliers.green"),
			"yellow": viper.GetFloat64("danger.zoneMultipliers.yellow"),
			"red":    viper.GetFloat64("danger.zoneMultipliers.red"),
		},
		MaxAngleBonus: viper.GetFloat64("danger.maxAngleBonus"),
	}
}

// TrajectoryConfig holds the settings for both heading policies.
type TrajectoryConfig struct {
	MomentOfInertia      float64
	MaxTorque            float64
	BaseTurn             float64
	TurnAmplifier        float64
	MaxTurnAngle         float64
	MomentumThresholdDeg float64
}

// Trajectory builds the trajectory settings from viper.
func Trajectory() TrajectoryConfig {
	return TrajectoryConfig{
		MomentOfInertia:      viper.GetFloat64("trajectory.momentOfInertia"),
		MaxTorque:            viper.GetFloat64("trajectory.maxTorque"),
		BaseTurn:             viper.GetFloat64("trajectory.baseTurn"),
		TurnAmplifier:        viper.GetFloat64("trajectory.turnAmplifier"),
		MaxTurnAngle:         viper.GetFloat64("trajectory.maxTurnAngle"),
		MomentumThresholdDeg: viper.GetFloat64("trajectory.momentumThresholdDeg"),
	}
}

// FuelConfig holds the fuel model constants.
type FuelConfig struct {
	BaseRate              float64
	OptimalThrust         float64
	PowerPenaltyThreshold float64
	EngineEfficiency      map[string]float64
}

// Fuel builds the fuel model settings from viper. Viper lowercases map keys,
// so the efficiency table is keyed by lowercased engine class.
func Fuel() FuelConfig {
	eff := map[string]float64{}
	for class, factor := range viper.GetStringMap("fuel.engineEfficiency") {
		if f, ok := factor.(float64); ok {
			eff[strings.ToLower(class)] = f
		}
	}
	return FuelConfig{
		BaseRate:              viper.GetFloat64("fuel.baseRate"),
		OptimalThrust:         viper.GetFloat64("fuel.optimalThrust"),
		PowerPenaltyThreshold: viper.GetFloat64("fuel.powerPenaltyThreshold"),
		EngineEfficiency:      eff,
	}
}

// SeverityBand classifies a crash by the danger score and closest-threat
// distance at impact.
type SeverityBand struct {
	Label       string
	MinDanger   float64
	MaxDistance float64
}

// TripConfig holds the trip evaluator weights, ceilings and override
// thresholds.
type TripConfig struct {
	DangerWeight float64
	FuelWeight   float64
	CostWeight   float64
	TurnWeight   float64

	FuelNorm float64
	CostNorm float64
	TurnNorm float64

	NoEscapeThreatCount int
	NoEscapeDistance    float64
	CrashDistance       float64

	// SeverityBands are checked worst-first; the first band whose
	// thresholds are both met names the crash severity.
	SeverityBands []SeverityBand
}

// Trip builds the trip evaluator settings from viper.
func Trip() TripConfig {
	severityBand := func(label, key string) SeverityBand {
		return SeverityBand{
			Label:       label,
			MinDanger:   viper.GetFloat64("trip.severity." + key + ".minDanger"),
			MaxDistance: viper.GetFloat64("trip.severity." + key + ".maxDistance"),
		}
	}

	return TripConfig{
		DangerWeight:        viper.GetFloat64("trip.weights.danger"),
		FuelWeight:          viper.GetFloat64("trip.weights.fuel"),
		CostWeight:          viper.GetFloat64("trip.weights.cost"),
		TurnWeight:          viper.GetFloat64("trip.weights.turn"),
		FuelNorm:            viper.GetFloat64("trip.norm.fuel"),
		CostNorm:            viper.GetFloat64("trip.norm.cost"),
		TurnNorm:            viper.GetFloat64("trip.norm.turn"),
		NoEscapeThreatCount: viper.GetInt("trip.noEscapeThreatCount"),
		NoEscapeDistance:    viper.GetFloat64("trip.noEscapeDistance"),
		CrashDistance:       viper.GetFloat64("trip.crashDistance"),
		SeverityBands: []SeverityBand{
			severityBand("Deadly", "deadly"),
			severityBand("Total Loss", "totalLoss"),
			severityBand("Major Damage", "major"),
			severityBand("Medium Damage", "medium"),
		},
	}
}

// SimConfig holds orchestrator-level settings.
type SimConfig struct {
	DeltaTime float64
	Seed      uint64
	Workers   int
	Policy    string
}

// Sim builds the orchestrator settings from viper.
func Sim() SimConfig {
	return SimConfig{
		DeltaTime: viper.GetFloat64("sim.deltaTime"),
		Seed:      viper.GetUint64("sim.seed"),
		Workers:   viper.GetInt("sim.workers"),
		Policy:    viper.GetString("sim.policy"),
	}
}

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// StorageConfig selects and configures the result storage backend.
type StorageConfig struct {
	Type      string
	Memory    MemoryConfig
	FlushSize int
}

// Storage builds the storage settings from viper.
func Storage() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		FlushSize: viper.GetInt("storage.gorm.flushSize"),
	}
}
