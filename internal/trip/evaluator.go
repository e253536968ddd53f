// Package trip blends danger, fuel, cost and turn penalties into a composite
// trip-quality verdict, with crash and no-escape overrides layered on top.
package trip

import (
	"math"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
)

// Evaluation labels, ordered from best to worst.
const (
	EvalExcellent = "Excellent"
	EvalGood      = "Good"
	EvalRisky     = "Risky"
	EvalPoor      = "Poor"
	EvalCritical  = "Critical Failure"
)

// Crash severity classes.
const (
	SeverityDeadly    = "Deadly"
	SeverityTotalLoss = "Total Loss"
	SeverityMajor     = "Major Damage"
	SeverityMedium    = "Medium Damage"
	SeverityMinor     = "Minor Damage"
)

// OverrideStats is the raw perception slice that drives the crash and
// no-escape overrides. Passing nil disables both overrides; a NaN field also
// disables them, since override input is best-effort telemetry and must never
// abort a tick.
type OverrideStats struct {
	ThreatCount float64
	MinDistance float64
}

// Evaluator computes trip verdicts. Stateless; all weights, normalization
// ceilings and override thresholds come from configuration.
type Evaluator struct {
	cfg config.TripConfig
}

// NewEvaluator creates an evaluator with the given configuration.
func NewEvaluator(cfg config.TripConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate scores one tick.
//
// Fuel, cost and turn are normalized against their ceilings and clamped to 1,
// then combined with the danger score into a weighted penalty. The base score
// is 1 minus the penalty, rounded to 3 decimals and clamped to [0,1].
// Overrides apply in order: no-escape halves the score once; a crash forces
// it to exactly 0 regardless of everything else.
func (e *Evaluator) Evaluate(dangerScore, fuelUsed, totalCost, turnAngle float64, stats *OverrideStats) core.TripResult {
	fuelNorm := math.Min(fuelUsed/e.cfg.FuelNorm, 1.0)
	costNorm := math.Min(totalCost/e.cfg.CostNorm, 1.0)
	turnNorm := math.Min(turnAngle/e.cfg.TurnNorm, 1.0)

	penalty := e.cfg.DangerWeight*dangerScore +
		e.cfg.FuelWeight*fuelNorm +
		e.cfg.CostWeight*costNorm +
		e.cfg.TurnWeight*turnNorm

	score := math.Round((1.0-penalty)*1000) / 1000
	score = math.Min(math.Max(score, 0.0), 1.0)

	res := core.TripResult{TripScore: score}

	if s, ok := usableOverrides(stats); ok {
		if s.ThreatCount >= float64(e.cfg.NoEscapeThreatCount) && s.MinDistance <= e.cfg.NoEscapeDistance {
			res.NoEscapeZone = true
			res.TripScore *= 0.5
		}
		if s.MinDistance <= e.cfg.CrashDistance {
			res.Crash = true
			res.TripScore = 0
			res.CrashSeverity = e.classifySeverity(dangerScore, s.MinDistance)
		}
	}

	res.Evaluation, res.Comments = e.describe(res)
	return res
}

// usableOverrides reports whether the override path is enabled. Malformed
// telemetry disables the overrides instead of failing the tick.
func usableOverrides(stats *OverrideStats) (OverrideStats, bool) {
	if stats == nil {
		return OverrideStats{}, false
	}
	if math.IsNaN(stats.ThreatCount) || math.IsNaN(stats.MinDistance) {
		return OverrideStats{}, false
	}
	return *stats, true
}

// classifySeverity walks the configured bands worst-first; a crash matching
// none of them is minor damage.
func (e *Evaluator) classifySeverity(dangerScore, minDistance float64) string {
	for _, band := range e.cfg.SeverityBands {
		if dangerScore >= band.MinDanger && minDistance <= band.MaxDistance {
			return band.Label
		}
	}
	return SeverityMinor
}

// describe maps the final (post-override) score to its label and comment.
func (e *Evaluator) describe(res core.TripResult) (string, string) {
	if res.Crash {
		return EvalCritical, "Crash detected, vehicle lost."
	}
	switch {
	case res.TripScore >= 0.8:
		return EvalExcellent, "Efficient and low-risk path."
	case res.TripScore >= 0.6:
		return EvalGood, "Safe with minor inefficiencies."
	case res.TripScore >= 0.4:
		return EvalRisky, "Moderate danger or cost detected."
	default:
		if res.NoEscapeZone {
			return EvalPoor, "Threat density too high, no escape route available."
		}
		return EvalPoor, "Unsafe or inefficient trip path."
	}
}
