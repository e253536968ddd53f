// Package memory stores run results in memory and exports them to JSON when
// the run ends.
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/config"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
)

// Backend accumulates results in memory.
type Backend struct {
	cfg config.MemoryConfig

	run     *core.Run
	results []core.ResultRecord

	exportedPath string
	mu           sync.RWMutex
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	return os.MkdirAll(b.cfg.OutputDir, 0o755)
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartRun begins accumulating a new run, discarding any previous one.
func (b *Backend) StartRun(run *core.Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.run = run
	b.results = nil
	b.exportedPath = ""
	return nil
}

// RecordResult appends one tick's result.
func (b *Backend) RecordResult(r *core.ResultRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no active run")
	}
	b.results = append(b.results, *r)
	return nil
}

// EndRun finalizes and exports the run to JSON.
func (b *Backend) EndRun() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no active run")
	}
	return b.exportJSON()
}

// Results returns a copy of the accumulated results.
func (b *Backend) Results() []core.ResultRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]core.ResultRecord, len(b.results))
	copy(out, b.results)
	return out
}

// GetExportedFilePath returns the path of the last exported file, empty if
// nothing was exported yet.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportedPath
}

// export is the JSON document written when a run ends.
type export struct {
	Run         *core.Run           `json:"run"`
	FinishedAt  time.Time           `json:"finishedAt"`
	TickCount   int                 `json:"tickCount"`
	Evaluations map[string]int      `json:"evaluations"`
	CrashCount  int                 `json:"crashCount"`
	Results     []core.ResultRecord `json:"results"`
}

// exportJSON writes the run to OutputDir, gzipped when configured.
// Caller holds the lock.
func (b *Backend) exportJSON() error {
	if b.cfg.OutputDir == "" {
		return nil
	}

	doc := export{
		Run:        b.run,
		FinishedAt: time.Now(),
		TickCount:  len(b.results),
		Evaluations: lo.CountValuesBy(b.results, func(r core.ResultRecord) string {
			return r.Evaluation
		}),
		CrashCount: lo.CountBy(b.results, func(r core.ResultRecord) bool {
			return r.Crash
		}),
		Results: b.results,
	}

	name := fmt.Sprintf("%s.%s.json", b.run.Name, b.run.StartedAt.Format("20060102_150405"))
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	path := filepath.Join(b.cfg.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		if err := json.NewEncoder(gz).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
	}

	b.exportedPath = path
	return nil
}
