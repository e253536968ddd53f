package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from a JSON file and sets default values for every
// tunable model constant. configDir is the directory containing the config
// file. Missing file is not an error; defaults then apply everywhere.
func Load(configDir string) error {
	// General
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./simlogs")

	// Perception
	viper.SetDefault("perception.fovDeg", 120.0)
	viper.SetDefault("perception.viewRadius", 50.0)
	viper.SetDefault("perception.frontConeDeg", 60.0)
	viper.SetDefault("perception.zoneRedDistance", 5.0)
	viper.SetDefault("perception.zoneYellowDistance", 15.0)

	// Danger rating
	viper.SetDefault("danger.weights.threatCount", 0.35)
	viper.SetDefault("danger.weights.minDistance", 0.2)
	viper.SetDefault("danger.weights.fovDensity", 0.1)
	viper.SetDefault("danger.weights.frontCone", 0.2)
	viper.SetDefault("danger.weights.angleDensity", 0.15)
	viper.SetDefault("danger.zoneMultipliers.green", 1.0)
	viper.SetDefault("danger.zoneMultipliers.yellow", 1.25)
	viper.SetDefault("danger.zoneMultipliers.red", 1.5)
	viper.SetDefault("danger.maxAngleBonus", 0.2)

	// Trajectory
	viper.SetDefault("trajectory.momentOfInertia", 500.0)
	viper.SetDefault("trajectory.maxTorque", 100.0)
	viper.SetDefault("trajectory.baseTurn", 20.0)
	viper.SetDefault("trajectory.turnAmplifier", 40.0)
	viper.SetDefault("trajectory.maxTurnAngle", 90.0)
	viper.SetDefault("trajectory.momentumThresholdDeg", 10.0)

	// Fuel
	viper.SetDefault("fuel.baseRate", 0.04)
	viper.SetDefault("fuel.optimalThrust", 60.0)
	viper.SetDefault("fuel.powerPenaltyThreshold", 300.0)
	viper.SetDefault("fuel.engineEfficiency", map[string]float64{
		"Ion-A":    0.7,
		"Ion-B":    0.75,
		"Fusion-B": 1.0,
		"Fusion-C": 1.1,
		"Plasma-A": 1.3,
	})

	// Cost
	viper.SetDefault("cost.fuelUnitCost", 5.0)

	// Trip evaluation
	viper.SetDefault("trip.weights.danger", 0.4)
	viper.SetDefault("trip.weights.fuel", 0.2)
	viper.SetDefault("trip.weights.cost", 0.2)
	viper.SetDefault("trip.weights.turn", 0.2)
	viper.SetDefault("trip.norm.fuel", 10.0)
	viper.SetDefault("trip.norm.cost", 50.0)
	viper.SetDefault("trip.norm.turn", 90.0)
	viper.SetDefault("trip.noEscapeThreatCount", 7)
	viper.SetDefault("trip.noEscapeDistance", 2.0)
	viper.SetDefault("trip.crashDistance", 1.0)
	viper.SetDefault("trip.severity.deadly.minDanger", 0.8)
	viper.SetDefault("trip.severity.deadly.maxDistance", 0.5)
	viper.SetDefault("trip.severity.totalLoss.minDanger", 0.7)
	viper.SetDefault("trip.severity.totalLoss.maxDistance", 1.0)
	viper.SetDefault("trip.severity.major.minDanger", 0.5)
	viper.SetDefault("trip.severity.major.maxDistance", 1.5)
	viper.SetDefault("trip.severity.medium.minDanger", 0.3)
	viper.SetDefault("trip.severity.medium.maxDistance", 2.0)

	// Simulation
	viper.SetDefault("sim.deltaTime", 1.0)
	viper.SetDefault("sim.seed", 42)
	viper.SetDefault("sim.workers", 4)
	viper.SetDefault("sim.policy", "physics")

	// Storage
	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./results")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.gorm.flushSize", 500)

	// Database (used by the gorm storage backend)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "spacecar")
	viper.SetDefault("db.sqlitePath", "./results/spacecar.db")

	// InfluxDB run metrics
	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "spacecar-metrics")
	viper.SetDefault("influx.bucket", "sim_runs")

	// OpenTelemetry
	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "spacecar-sim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("spacecar_sim.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float64 config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
