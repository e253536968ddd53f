// Package gormstore implements the storage.Backend interface over a GORM
// database connection. It works identically over SQLite and Postgres; the
// connection is chosen by the database manager.
package gormstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/logging"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/model"
)

// Dependencies holds everything the backend needs.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
	// FlushSize is the number of buffered records per batch insert.
	FlushSize int
}

// Backend buffers result records and writes them in batches.
type Backend struct {
	deps Dependencies

	run    *model.SimRun
	buffer []model.TripRecord
	mu     sync.Mutex

	lastWriteDuration time.Duration
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.FlushSize <= 0 {
		deps.FlushSize = 500
	}
	return &Backend{deps: deps}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("no database connection")
	}
	if err := b.deps.DB.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close flushes any buffered records.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked()
}

// StartRun inserts the run row and resets the buffer.
func (b *Backend) StartRun(run *core.Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	row := model.SimRun{
		Name:      run.Name,
		Policy:    run.Policy,
		Seed:      run.Seed,
		StartedAt: run.StartedAt,
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create run row: %w", err)
	}
	run.ID = row.ID
	b.run = &row
	b.buffer = nil
	return nil
}

// RecordResult buffers one tick's result, flushing when the buffer is full.
func (b *Backend) RecordResult(r *core.ResultRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no active run")
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result payload: %w", err)
	}

	b.buffer = append(b.buffer, model.TripRecord{
		RunID:            b.run.ID,
		Tick:             r.Tick,
		DangerScore:      r.DangerScore,
		DangerLabel:      r.DangerLabel,
		FuelUsed:         r.FuelUsed,
		TotalCost:        r.TotalCost,
		CurrentHeading:   r.CurrentHeading,
		PredictedHeading: r.PredictedHeading,
		TurnDirection:    r.TurnDirection,
		TripScore:        r.TripScore,
		Evaluation:       r.Evaluation,
		Crash:            r.Crash,
		CrashSeverity:    r.CrashSeverity,
		NoEscapeZone:     r.NoEscapeZone,
		Payload:          datatypes.JSON(payload),
	})

	if len(b.buffer) >= b.deps.FlushSize {
		return b.flushLocked()
	}
	return nil
}

// EndRun flushes the buffer and stamps the run's end time.
func (b *Backend) EndRun() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no active run")
	}
	if err := b.flushLocked(); err != nil {
		return err
	}

	now := time.Now()
	if err := b.deps.DB.Model(b.run).Update("ended_at", &now).Error; err != nil {
		return fmt.Errorf("failed to stamp run end: %w", err)
	}
	b.run = nil
	return nil
}

// GetLastDBWriteDuration returns the duration of the last batch insert.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastWriteDuration
}

// flushLocked batch-inserts the buffer. Caller holds the lock.
func (b *Backend) flushLocked() error {
	if len(b.buffer) == 0 {
		return nil
	}

	start := time.Now()
	if err := b.deps.DB.CreateInBatches(b.buffer, b.deps.FlushSize).Error; err != nil {
		return fmt.Errorf("failed to insert %d trip records: %w", len(b.buffer), err)
	}
	b.lastWriteDuration = time.Since(start)

	if b.deps.LogManager != nil {
		b.deps.LogManager.Logger().Debug("Flushed trip records",
			"count", len(b.buffer), "duration", b.lastWriteDuration)
	}
	b.buffer = nil
	return nil
}
