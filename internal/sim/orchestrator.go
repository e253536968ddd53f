// Package sim wires the per-tick stages into trip and batch runs. Each tick
// flows perception features through danger rating, heading prediction, fuel
// and cost estimation and the trip verdict, then lands in storage. A failed
// tick is logged and skipped; it never aborts the run.
package sim

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/classifier"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/cost"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/danger"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/fuel"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/influx"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/logging"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/monitor"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/record"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/storage"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/trajectory"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/trip"
)

// Dependencies holds everything the orchestrator needs. Storage is required;
// Influx, Monitor and Predictor are optional and skipped when nil.
type Dependencies struct {
	LogManager *logging.SlogManager
	Danger     *danger.Model
	Policy     trajectory.Policy
	Fuel       *fuel.Model
	Cost       *cost.Model
	Trip       *trip.Evaluator
	Storage    storage.Backend

	Influx    *influx.Manager
	Monitor   *monitor.Service
	Predictor classifier.CrashPredictor

	// Workers bounds batch concurrency. Values below 1 mean sequential.
	Workers int
}

// Summary aggregates a finished run.
type Summary struct {
	Results      []core.ResultRecord
	Crashes      int
	Skipped      int
	AvgTripScore float64
	Elapsed      time.Duration
}

// Orchestrator executes runs over input records.
type Orchestrator struct {
	deps Dependencies
}

// New creates an orchestrator.
func New(deps Dependencies) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// dangerInputs adapts a record to the danger model, substituting the model's
// documented defaults for absent telemetry.
func dangerInputs(rec record.Record) danger.Inputs {
	in := danger.Inputs{
		ThreatCount:          orZero(rec.FOVThreatCount),
		MinDistance:          rec.MinDistanceInFOV,
		FOVDensity:           orZero(rec.FOVDensity),
		FrontConeCount:       orZero(rec.FOVFrontConeThreatCount),
		AngleWeightedDensity: orZero(rec.AngleWeightedDensity),
		AvgAngleOffset:       rec.AverageThreatAngleOffset,
		Zone:                 rec.Zone,
	}
	if math.IsNaN(in.MinDistance) {
		in.MinDistance = 10.0
	}
	if math.IsNaN(in.AvgAngleOffset) {
		in.AvgAngleOffset = 90.0
	}
	if in.Zone == "" {
		in.Zone = "green"
	}
	return in
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// evaluateTick runs the full stage pipeline for one record. The returned
// state carries momentum into the next tick of a trip; batch callers discard
// it. prevHeading is the heading one tick earlier: the threaded value in trip
// mode, the record's own column in batch mode.
func (o *Orchestrator) evaluateTick(tick int, rec record.Record, state core.CarState, prevHeading float64, policy trajectory.Policy) (core.CarState, *core.ResultRecord, error) {
	assessment := o.deps.Danger.Rate(dangerInputs(rec))

	next, diag, err := policy.Predict(state, prevHeading, rec.SectorStats())
	if err != nil {
		return state, nil, fmt.Errorf("trajectory: %w", err)
	}

	fuelUsed, err := o.deps.Fuel.Estimate(rec.VehicleSpecs(), assessment.Score, diag.TurnAngle)
	if err != nil {
		return state, nil, fmt.Errorf("fuel: %w", err)
	}

	estimate, err := o.deps.Cost.Optimize(fuelUsed)
	if err != nil {
		return state, nil, fmt.Errorf("cost: %w", err)
	}

	verdict := o.deps.Trip.Evaluate(assessment.Score, fuelUsed, estimate.TotalCost, diag.TurnAngle, &trip.OverrideStats{
		ThreatCount: rec.FOVThreatCount,
		MinDistance: rec.MinDistanceInFOV,
	})

	result := &core.ResultRecord{
		Tick:             tick,
		DangerScore:      assessment.Score,
		DangerLabel:      assessment.Label,
		FuelUsed:         fuelUsed,
		FuelCost:         estimate.FuelCost,
		TotalCost:        estimate.TotalCost,
		CurrentHeading:   state.Heading,
		PredictedHeading: next.Heading,
		TurnDirection:    diag.Direction,
		TurnAngle:        diag.TurnAngle,
		AppliedTorque:    diag.AppliedTorque,
		AngularVelocity:  next.AngularVelocity,
		TripScore:        verdict.TripScore,
		Evaluation:       verdict.Evaluation,
		Comments:         verdict.Comments,
		Crash:            verdict.Crash,
		CrashSeverity:    verdict.CrashSeverity,
		NoEscapeZone:     verdict.NoEscapeZone,
	}

	if o.deps.Predictor != nil {
		pred, err := o.deps.Predictor.Predict(classifier.FromRecord(rec, assessment.Score))
		if err != nil {
			o.deps.LogManager.Logger().Warn("crash prediction failed", "tick", tick, "error", err)
		} else {
			result.CrashPredicted = &pred.Label
			result.CrashProbability = &pred.Probability
		}
	}

	return next, result, nil
}

// RunTrip executes the records as one continuous trip: the car state returned
// by each tick feeds the next, so momentum carries across the whole sequence.
func (o *Orchestrator) RunTrip(ctx context.Context, run *core.Run, records []record.Record) (Summary, error) {
	started := time.Now()
	if err := o.deps.Storage.StartRun(run); err != nil {
		return Summary{}, fmt.Errorf("start run: %w", err)
	}

	state := core.CarState{}
	prevHeading := 0.0
	if len(records) > 0 {
		state.Heading = records[0].Heading()
		prevHeading = records[0].PreviousHeading()
	}

	var summary Summary
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		next, result, err := o.evaluateTick(i, rec, state, prevHeading, o.deps.Policy)
		if err != nil {
			o.skip(i, err, &summary)
			continue
		}
		// The heading the car actually held this tick becomes the next
		// tick's previous heading; the per-record input column only seeds
		// the first tick.
		prevHeading = state.Heading
		state = next
		o.emit(ctx, run, result, &summary)
	}

	return o.finish(ctx, run, started, summary)
}

// RunBatch evaluates records independently across a worker pool. Each record
// seeds its own car state from its heading, and forkable policies are forked
// into a per-record random stream, so the outcome per record matches a
// sequential run regardless of worker count. Results are stored in input
// order.
func (o *Orchestrator) RunBatch(ctx context.Context, run *core.Run, records []record.Record) (Summary, error) {
	started := time.Now()
	if err := o.deps.Storage.StartRun(run); err != nil {
		return Summary{}, fmt.Errorf("start run: %w", err)
	}

	workers := o.deps.Workers
	if workers < 1 {
		workers = 1
	}

	type outcome struct {
		result *core.ResultRecord
		err    error
	}
	outcomes := make([]outcome, len(records))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				rec := records[i]
				policy := o.deps.Policy
				if f, ok := policy.(trajectory.Forkable); ok {
					policy = f.Fork(uint64(i))
				}
				state := core.CarState{Heading: rec.Heading()}
				_, result, err := o.evaluateTick(i, rec, state, rec.PreviousHeading(), policy)
				outcomes[i] = outcome{result: result, err: err}
			}
		}()
	}

	var canceled error
feed:
	for i := range records {
		select {
		case <-ctx.Done():
			canceled = ctx.Err()
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	var summary Summary
	for i, out := range outcomes {
		if out.result == nil && out.err == nil {
			continue // not reached before cancellation
		}
		if out.err != nil {
			o.skip(i, out.err, &summary)
			continue
		}
		o.emit(ctx, run, out.result, &summary)
	}

	if canceled != nil {
		return summary, canceled
	}
	return o.finish(ctx, run, started, summary)
}

func (o *Orchestrator) skip(tick int, err error, summary *Summary) {
	summary.Skipped++
	o.deps.LogManager.Logger().Warn("tick skipped", "tick", tick, "error", err)
	if o.deps.Monitor != nil {
		o.deps.Monitor.RecordSkipped()
	}
}

func (o *Orchestrator) emit(ctx context.Context, run *core.Run, result *core.ResultRecord, summary *Summary) {
	summary.Results = append(summary.Results, *result)
	if result.Crash {
		summary.Crashes++
	}

	if err := o.deps.Storage.RecordResult(result); err != nil {
		o.deps.LogManager.Logger().Error("failed to store result", "tick", result.Tick, "error", err)
	}
	if o.deps.Influx != nil {
		if err := o.deps.Influx.WriteTripResult(ctx, run, result); err != nil {
			o.deps.LogManager.Logger().Warn("failed to ship trip metrics", "tick", result.Tick, "error", err)
		}
	}
	if o.deps.Monitor != nil {
		o.deps.Monitor.RecordResult(result.Crash)
	}
}

func (o *Orchestrator) finish(ctx context.Context, run *core.Run, started time.Time, summary Summary) (Summary, error) {
	summary.Elapsed = time.Since(started)
	if len(summary.Results) > 0 {
		total := lo.SumBy(summary.Results, func(r core.ResultRecord) float64 { return r.TripScore })
		summary.AvgTripScore = total / float64(len(summary.Results))
	}

	if err := o.deps.Storage.EndRun(); err != nil {
		return summary, fmt.Errorf("end run: %w", err)
	}

	if o.deps.Influx != nil {
		err := o.deps.Influx.WriteRunSummary(ctx, run, influx.RunSummary{
			Records:      len(summary.Results),
			Crashes:      summary.Crashes,
			Skipped:      summary.Skipped,
			AvgTripScore: summary.AvgTripScore,
			Elapsed:      summary.Elapsed,
		})
		if err != nil {
			o.deps.LogManager.Logger().Warn("failed to ship run summary", "error", err)
		}
	}

	o.deps.LogManager.Logger().Info("run finished",
		"run", run.Name,
		"policy", run.Policy,
		"records", len(summary.Results),
		"crashes", summary.Crashes,
		"skipped", summary.Skipped,
		"avgTripScore", summary.AvgTripScore,
		"elapsed", summary.Elapsed.String(),
	)
	return summary, nil
}
