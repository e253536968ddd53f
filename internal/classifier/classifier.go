// Package classifier defines the crash-prediction capability boundary. The
// orchestrator may carry a predictor and calls it after assembling each
// result record; training and model artifacts live entirely outside this
// repository.
package classifier

import (
	"math"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/record"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/simerr"
)

// FeatureVector is the fixed, ordered feature set every predictor consumes.
type FeatureVector struct {
	FOVThreatCount           float64
	MinDistanceInFOV         float64
	FOVDensity               float64
	FOVFrontConeThreatCount  float64
	AngleWeightedDensity     float64
	ThreatsLeftSector        float64
	ThreatsRightSector       float64
	AverageThreatAngleOffset float64
	HeadingDeg               float64
	PreviousHeadingDeg       float64
	DangerScore              float64
}

// FromRecord assembles the feature vector for one tick.
func FromRecord(rec record.Record, dangerScore float64) FeatureVector {
	return FeatureVector{
		FOVThreatCount:           rec.FOVThreatCount,
		MinDistanceInFOV:         rec.MinDistanceInFOV,
		FOVDensity:               rec.FOVDensity,
		FOVFrontConeThreatCount:  rec.FOVFrontConeThreatCount,
		AngleWeightedDensity:     rec.AngleWeightedDensity,
		ThreatsLeftSector:        rec.ThreatsLeftSector,
		ThreatsRightSector:       rec.ThreatsRightSector,
		AverageThreatAngleOffset: rec.AverageThreatAngleOffset,
		HeadingDeg:               rec.HeadingDeg,
		PreviousHeadingDeg:       rec.PreviousHeadingDeg,
		DangerScore:              dangerScore,
	}
}

// Prediction is a binary crash verdict with its probability.
type Prediction struct {
	Label       int     // 0 = no crash, 1 = crash
	Probability float64 // in [0,1]
}

// CrashPredictor is the injected capability. Implementations must be safe for
// concurrent use; the orchestrator calls Predict from parallel trips.
type CrashPredictor interface {
	Predict(fv FeatureVector) (Prediction, error)
}

// ThresholdPredictor is a transparent stand-in for a trained model: crash
// probability rises with the danger score and falls with the closest-threat
// distance. Useful for demo runs and for exercising the capability wiring.
type ThresholdPredictor struct {
	// CutoffProbability above which the label flips to crash.
	CutoffProbability float64
}

// NewThresholdPredictor creates the stand-in predictor with a 0.5 cutoff.
func NewThresholdPredictor() *ThresholdPredictor {
	return &ThresholdPredictor{CutoffProbability: 0.5}
}

// Predict scores the feature vector. NaN danger or distance is rejected with
// simerr.ErrInvalidInput; the orchestrator then leaves the prediction fields
// unset rather than failing the tick.
func (p *ThresholdPredictor) Predict(fv FeatureVector) (Prediction, error) {
	if math.IsNaN(fv.DangerScore) || math.IsNaN(fv.MinDistanceInFOV) {
		return Prediction{}, simerr.InvalidInput("feature vector has NaN danger or distance")
	}

	proximity := 0.0
	if fv.MinDistanceInFOV < 2.0 {
		proximity = (2.0 - fv.MinDistanceInFOV) / 2.0
	}
	prob := 0.6*fv.DangerScore + 0.4*proximity
	prob = math.Min(math.Max(prob, 0), 1)
	prob = math.Round(prob*1000) / 1000

	label := 0
	if prob > p.CutoffProbability {
		label = 1
	}
	return Prediction{Label: label, Probability: prob}, nil
}
