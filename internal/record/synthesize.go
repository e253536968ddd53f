package record

import (
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/environment"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/perception"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/randengine"
)

// engineClasses available to synthesized vehicles.
var engineClasses = []string{"Ion-A", "Ion-B", "Fusion-B", "Fusion-C", "Plasma-A"}

// Synthesize generates n demo records by scattering obstacles around a random
// car placement and running the perception filter over the scene. It lets the
// CLI exercise the full pipeline without an input file; identical seeds
// produce identical records.
func Synthesize(n int, seed uint64, pcfg config.PerceptionConfig) []Record {
	rng := randengine.New(seed)
	filter := perception.NewFilter(pcfg)
	env := environment.New(100, 100, pcfg.ViewRadius, rng)

	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		env.PlaceCar()
		env.GenerateObstacles(5 + rng.Intn(10))

		_, stats, err := filter.Filter(env.Obstacles(), env.CarPosition(), env.Heading())
		if err != nil {
			continue
		}

		rec := New()
		rec.FOVThreatCount = float64(stats.ThreatCount)
		rec.MinDistanceInFOV = stats.MinDistance
		rec.FOVDensity = stats.Density
		rec.FOVFrontConeThreatCount = float64(stats.FrontConeCount)
		rec.AngleWeightedDensity = stats.AngleWeightedDensity
		rec.ThreatsLeftSector = float64(stats.ThreatsLeft)
		rec.ThreatsRightSector = float64(stats.ThreatsRight)
		rec.AverageThreatAngleOffset = stats.AvgAngleOffset
		rec.Zone = stats.Zone

		rec.HeadingDeg = env.Heading()
		rec.PreviousHeadingDeg = env.Heading()

		rec.ChassisWeightKg = 700 + rng.Float64()*600
		rec.EngineWeightKg = 120 + rng.Float64()*220
		rec.ThrusterWeightKg = 80 + rng.Float64()*120
		rec.FuelWeightKg = 50 + rng.Float64()*150
		rec.TotalThrustKN = 30 + rng.Float64()*80
		rec.StartingFuelKWh = 100 + rng.Float64()*300
		rec.MomentOfInertia = 0.5 + rng.Float64()*1.5
		rec.EngineClass = randengine.Choice(rng, engineClasses...)

		records = append(records, rec)
	}
	return records
}
