package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"sim": { "policy": "heuristic", "workers": 8 },
		"danger": { "maxAngleBonus": 0.3 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spacecar_sim.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "heuristic", viper.GetString("sim.policy"))
	assert.Equal(t, 8, viper.GetInt("sim.workers"))
	assert.Equal(t, 0.3, viper.GetFloat64("danger.maxAngleBonus"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spacecar_sim.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./simlogs", viper.GetString("logsDir"))
	assert.Equal(t, 120.0, viper.GetFloat64("perception.fovDeg"))
	assert.Equal(t, 50.0, viper.GetFloat64("perception.viewRadius"))
	assert.Equal(t, 0.35, viper.GetFloat64("danger.weights.threatCount"))
	assert.Equal(t, 1.25, viper.GetFloat64("danger.zoneMultipliers.yellow"))
	assert.Equal(t, 500.0, viper.GetFloat64("trajectory.momentOfInertia"))
	assert.Equal(t, 100.0, viper.GetFloat64("trajectory.maxTorque"))
	assert.Equal(t, 0.04, viper.GetFloat64("fuel.baseRate"))
	assert.Equal(t, 60.0, viper.GetFloat64("fuel.optimalThrust"))
	assert.Equal(t, 5.0, viper.GetFloat64("cost.fuelUnitCost"))
	assert.Equal(t, 0.4, viper.GetFloat64("trip.weights.danger"))
	assert.Equal(t, 90.0, viper.GetFloat64("trip.norm.turn"))
	assert.Equal(t, "physics", viper.GetString("sim.policy"))
	assert.Equal(t, uint64(42), viper.GetUint64("sim.seed"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./results", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "spacecar-sim", viper.GetString("otel.serviceName"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "physics", viper.GetString("sim.policy"))
	assert.Equal(t, 4, viper.GetInt("sim.workers"))
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spacecar_sim.cfg.json"), []byte(`{not json`), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestSectionBuilders(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(t.TempDir()))

	p := Perception()
	assert.Equal(t, 120.0, p.FOVDeg)
	assert.Equal(t, 60.0, p.FrontConeDeg)

	d := Danger()
	assert.Equal(t, 0.2, d.MaxAngleBonus)
	assert.Equal(t, 1.5, d.ZoneMultipliers["red"])

	tr := Trajectory()
	assert.Equal(t, 20.0, tr.BaseTurn)
	assert.Equal(t, 90.0, tr.MaxTurnAngle)

	f := Fuel()
	assert.Equal(t, 0.7, f.EngineEfficiency["ion-a"])
	assert.Equal(t, 1.3, f.EngineEfficiency["plasma-a"])

	trip := Trip()
	assert.Equal(t, 7, trip.NoEscapeThreatCount)
	assert.Equal(t, 2.0, trip.NoEscapeDistance)
	assert.Equal(t, 1.0, trip.CrashDistance)
	require.Len(t, trip.SeverityBands, 4)
	assert.Equal(t, SeverityBand{Label: "Deadly", MinDanger: 0.8, MaxDistance: 0.5}, trip.SeverityBands[0])
	assert.Equal(t, SeverityBand{Label: "Medium Damage", MinDanger: 0.3, MaxDistance: 2.0}, trip.SeverityBands[3])

	s := Storage()
	assert.Equal(t, "memory", s.Type)
	assert.Equal(t, 500, s.FlushSize)
}
