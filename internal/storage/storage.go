// Package storage defines the result persistence interface and its backends.
package storage

import "github.com/McPixelat0r/spacecar-ai-analysis/internal/core"

// Backend is the interface all result storage implementations satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management
	StartRun(run *core.Run) error
	EndRun() error

	// Result recording, one record per simulated tick
	RecordResult(r *core.ResultRecord) error
}

// Exportable is an optional interface for backends that produce an output
// file when the run ends.
type Exportable interface {
	GetExportedFilePath() string
}
