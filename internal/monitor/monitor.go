// Package monitor tracks batch progress and periodically reports it.
package monitor

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/logging"
)

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	LogManager *logging.SlogManager
	RunName    string
	// Interval between periodic status reports. Zero disables the loop.
	Interval time.Duration
	// LastWriteDuration reports the most recent storage flush duration.
	// Optional.
	LastWriteDuration func() time.Duration
}

// Snapshot is a point-in-time view of batch progress.
type Snapshot struct {
	Time                time.Time `json:"time"`
	Run                 string    `json:"run"`
	Processed           int64     `json:"processed"`
	Crashes             int64     `json:"crashes"`
	Skipped             int64     `json:"skipped"`
	LastWriteDurationMs float32   `json:"lastWriteDurationMs"`
}

// Service manages batch progress monitoring.
type Service struct {
	deps      Dependencies
	processed atomic.Int64
	crashes   atomic.Int64
	skipped   atomic.Int64

	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the periodic reporter is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RecordResult counts one finished tick.
func (s *Service) RecordResult(crashed bool) {
	s.processed.Add(1)
	if crashed {
		s.crashes.Add(1)
	}
}

// RecordSkipped counts one record dropped due to a per-tick error.
func (s *Service) RecordSkipped() {
	s.skipped.Add(1)
}

// GetSnapshot returns the current progress counters.
func (s *Service) GetSnapshot() Snapshot {
	snap := Snapshot{
		Time:      time.Now(),
		Run:       s.deps.RunName,
		Processed: s.processed.Load(),
		Crashes:   s.crashes.Load(),
		Skipped:   s.skipped.Load(),
	}
	if s.deps.LastWriteDuration != nil {
		snap.LastWriteDurationMs = float32(s.deps.LastWriteDuration().Milliseconds())
	}
	return snap
}

// GetStatus returns the snapshot rendered as indented JSON.
func (s *Service) GetStatus() string {
	data, err := json.MarshalIndent(s.GetSnapshot(), "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}

// Start launches the periodic reporter. Safe to call once per service.
func (s *Service) Start() {
	s.mu.Lock()
	if s.isRunning || s.deps.Interval <= 0 {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				snap := s.GetSnapshot()
				s.deps.LogManager.Logger().Info("batch progress",
					"run", snap.Run,
					"processed", snap.Processed,
					"crashes", snap.Crashes,
					"skipped", snap.Skipped,
					"lastWriteMs", snap.LastWriteDurationMs,
				)
			}
		}
	}()
}

// Stop halts the periodic reporter.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
}
