// Package model defines the GORM models used by the database-backed storage
// backends.
package model

import (
	"time"

	"gorm.io/datatypes"
)

// SimRun is one batch execution.
type SimRun struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"size:127;index"`
	Policy    string `gorm:"size:31"`
	Seed      uint64
	StartedAt time.Time
	EndedAt   *time.Time
}

// TripRecord is one simulated tick's merged result. Key fields are flattened
// into columns for querying; the full flat record is kept as JSON alongside.
type TripRecord struct {
	ID    uint `gorm:"primarykey"`
	RunID uint `gorm:"index"`
	Tick  int

	DangerScore float64
	DangerLabel string `gorm:"size:15"`

	FuelUsed  float64
	TotalCost float64

	CurrentHeading   float64
	PredictedHeading float64
	TurnDirection    string `gorm:"size:15"`

	TripScore     float64
	Evaluation    string `gorm:"size:31;index"`
	Crash         bool   `gorm:"index"`
	CrashSeverity string `gorm:"size:31"`
	NoEscapeZone  bool

	// Payload holds the complete flat result record, including
	// policy-specific diagnostics and optional classifier output.
	Payload datatypes.JSON
}

// All returns every model for schema migration.
func All() []any {
	return []any{
		&SimRun{},
		&TripRecord{},
	}
}
