// Command spacecar-sim runs the trip simulation pipeline over a CSV of
// perception records, or over synthesized demo data, and persists the
// per-tick verdicts to the configured storage backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/classifier"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/cost"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/danger"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/database"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/fuel"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/influx"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/logging"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/monitor"
	intOtel "github.com/McPixelat0r/spacecar-ai-analysis/internal/otel"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/randengine"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/record"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/sim"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/storage"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/trajectory"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/trip"
)

var (
	Version   = "0.0.1"
	BuildDate = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configDir = flag.String("config", ".", "directory containing spacecar_sim.cfg.json")
		input     = flag.String("input", "", "path to the input CSV of perception records")
		limit     = flag.Int("limit", 0, "maximum number of records to load, 0 for all")
		policy    = flag.String("policy", "", "heading policy: physics or heuristic (overrides config)")
		seed      = flag.Uint64("seed", 0, "random seed (overrides config, 0 keeps config value)")
		workers   = flag.Int("workers", 0, "batch worker count (overrides config, 0 keeps config value)")
		demo      = flag.Int("demo", 0, "synthesize N demo records instead of reading a CSV")
		predict   = flag.Bool("predict", false, "attach the threshold crash predictor")
		runName   = flag.String("name", "", "run name, defaults to a timestamp")
		showVer   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("spacecar-sim %s (built %s)\n", Version, BuildDate)
		return nil
	}

	if err := config.Load(*configDir); err != nil {
		return err
	}
	if *policy != "" {
		viper.Set("sim.policy", *policy)
	}
	if *seed != 0 {
		viper.Set("sim.seed", *seed)
	}
	if *workers != 0 {
		viper.Set("sim.workers", *workers)
	}
	simCfg := config.Sim()

	sessionStart := time.Now()
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.Create(logging.LogFilePath(logsDir, "spacecar-sim", sessionStart))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	var otelLogWriter *os.File
	if config.GetBool("otel.enabled") {
		otelLogWriter, err = os.Create(filepath.Join(logsDir, "otel.log"))
		if err != nil {
			return fmt.Errorf("failed to create otel log file: %w", err)
		}
		defer otelLogWriter.Close()
	}

	otelProvider, err := intOtel.New(intOtel.Config{
		Enabled:      config.GetBool("otel.enabled"),
		ServiceName:  config.GetString("otel.serviceName"),
		BatchTimeout: config.GetDuration("otel.batchTimeout"),
		LogWriter:    otelLogWriter,
		Endpoint:     config.GetString("otel.endpoint"),
		Insecure:     config.GetBool("otel.insecure"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize otel: %w", err)
	}

	logManager := logging.NewSlogManager()
	logManager.Setup(logFile, config.GetString("logLevel"), otelProvider.LoggerProvider())
	logger := logManager.Logger()
	logger.Info("Starting up", "version", Version, "policy", simCfg.Policy, "seed", simCfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = logManager.Flush(flushCtx)
		_ = otelProvider.Shutdown(flushCtx)
	}()

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()

	storageCfg := config.Storage()
	var dbManager *database.Manager
	if storageCfg.Type == "sqlite" || storageCfg.Type == "postgres" {
		dbManager = database.NewManager(zlog)
		if err := dbManager.Connect(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	backend, err := storage.NewBackend(storageCfg, dbManager, logManager)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer backend.Close()

	var influxManager *influx.Manager
	if config.GetBool("influx.enabled") {
		influxManager = influx.NewManager(zlog, filepath.Join(logsDir, "influx_backup.gz"))
		if err := influxManager.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable, run metrics disabled", "error", err)
			influxManager = nil
		} else {
			defer influxManager.Close()
		}
	}

	records, err := loadRecords(*input, *limit, *demo, simCfg.Seed)
	if err != nil {
		return err
	}
	logger.Info("Records loaded", "count", len(records), "demo", *demo > 0)

	headingPolicy, err := buildPolicy(simCfg)
	if err != nil {
		return err
	}

	name := *runName
	if name == "" {
		name = "run-" + sessionStart.Format("20060102-150405")
	}
	simRun := &core.Run{
		Name:      name,
		Policy:    headingPolicy.Name(),
		Seed:      simCfg.Seed,
		StartedAt: sessionStart,
	}

	monitorService := monitor.NewService(monitor.Dependencies{
		LogManager:        logManager,
		RunName:           name,
		Interval:          10 * time.Second,
		LastWriteDuration: lastWriteProbe(backend),
	})
	monitorService.Start()
	defer monitorService.Stop()

	deps := sim.Dependencies{
		LogManager: logManager,
		Danger:     danger.NewModel(config.Danger()),
		Policy:     headingPolicy,
		Fuel:       fuel.NewModel(config.Fuel()),
		Cost:       cost.NewModel(config.GetFloat("cost.fuelUnitCost")),
		Trip:       trip.NewEvaluator(config.Trip()),
		Storage:    backend,
		Influx:     influxManager,
		Monitor:    monitorService,
		Workers:    simCfg.Workers,
	}
	if *predict {
		deps.Predictor = classifier.NewThresholdPredictor()
	}

	orchestrator := sim.New(deps)

	var summary sim.Summary
	if simCfg.Workers > 1 {
		summary, err = orchestrator.RunBatch(ctx, simRun, records)
	} else {
		summary, err = orchestrator.RunTrip(ctx, simRun, records)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if exportable, ok := backend.(storage.Exportable); ok {
		logger.Info("Results exported", "path", exportable.GetExportedFilePath())
	}

	fmt.Printf("%s: %d records, %d crashes, %d skipped, avg trip score %.3f in %s\n",
		name, len(summary.Results), summary.Crashes, summary.Skipped,
		summary.AvgTripScore, summary.Elapsed.Round(time.Millisecond))
	return nil
}

func loadRecords(input string, limit, demo int, seed uint64) ([]record.Record, error) {
	if demo > 0 {
		return record.Synthesize(demo, seed, config.Perception()), nil
	}
	if input == "" {
		return nil, fmt.Errorf("either -input or -demo is required")
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	records, err := record.LoadCSV(f, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	return records, nil
}

func buildPolicy(simCfg config.SimConfig) (trajectory.Policy, error) {
	trajCfg := config.Trajectory()
	switch simCfg.Policy {
	case "physics":
		return trajectory.NewPhysicsPolicy(trajCfg, simCfg.DeltaTime), nil
	case "heuristic":
		return trajectory.NewHeuristicPolicy(trajCfg, randengine.New(simCfg.Seed)), nil
	default:
		return nil, fmt.Errorf("unknown policy: %s", simCfg.Policy)
	}
}

// lastWriteProbe exposes the storage flush duration to the monitor when the
// backend tracks one.
func lastWriteProbe(backend storage.Backend) func() time.Duration {
	type writeTimer interface {
		GetLastDBWriteDuration() time.Duration
	}
	if wt, ok := backend.(writeTimer); ok {
		return wt.GetLastDBWriteDuration
	}
	return nil
}
