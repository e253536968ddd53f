package gormstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/McPixelat0r/spacecar-ai-analysis/internal/core"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/database"
	"github.com/McPixelat0r/spacecar-ai-analysis/internal/model"
)

func testBackend(t *testing.T, flushSize int) (*Backend, *gorm.DB) {
	t.Helper()
	db, err := database.GetSqliteDBInMemory()
	require.NoError(t, err)

	b := New(Dependencies{DB: db, FlushSize: flushSize})
	require.NoError(t, b.Init())
	return b, db
}

func testRun() *core.Run {
	return &core.Run{
		Name:      "gorm-run",
		Policy:    "heuristic",
		Seed:      7,
		StartedAt: time.Now().UTC(),
	}
}

func result(tick int) *core.ResultRecord {
	return &core.ResultRecord{
		Tick:        tick,
		DangerScore: 0.581,
		DangerLabel: "Medium",
		FuelUsed:    0.8,
		TotalCost:   4.0,
		TripScore:   0.68,
		Evaluation:  "Good",
	}
}

func TestInit_MigratesSchema(t *testing.T) {
	_, db := testBackend(t, 10)

	assert.True(t, db.Migrator().HasTable(&model.SimRun{}))
	assert.True(t, db.Migrator().HasTable(&model.TripRecord{}))
}

func TestStartRun_AssignsRunID(t *testing.T) {
	b, db := testBackend(t, 10)

	run := testRun()
	require.NoError(t, b.StartRun(run))
	assert.NotZero(t, run.ID)

	var row model.SimRun
	require.NoError(t, db.First(&row, run.ID).Error)
	assert.Equal(t, "gorm-run", row.Name)
	assert.Equal(t, "heuristic", row.Policy)
	assert.Nil(t, row.EndedAt)
}

func TestRecordResult_BuffersUntilFlushSize(t *testing.T) {
	b, db := testBackend(t, 3)
	require.NoError(t, b.StartRun(testRun()))

	var count int64
	require.NoError(t, b.RecordResult(result(0)))
	require.NoError(t, b.RecordResult(result(1)))
	db.Model(&model.TripRecord{}).Count(&count)
	assert.Zero(t, count)

	// Third record fills the buffer and triggers the batch insert.
	require.NoError(t, b.RecordResult(result(2)))
	db.Model(&model.TripRecord{}).Count(&count)
	assert.Equal(t, int64(3), count)
	assert.Greater(t, b.GetLastDBWriteDuration(), time.Duration(0))
}

func TestEndRun_FlushesAndStampsEnd(t *testing.T) {
	b, db := testBackend(t, 100)
	run := testRun()
	require.NoError(t, b.StartRun(run))
	require.NoError(t, b.RecordResult(result(0)))
	require.NoError(t, b.RecordResult(result(1)))
	require.NoError(t, b.EndRun())

	var count int64
	db.Model(&model.TripRecord{}).Count(&count)
	assert.Equal(t, int64(2), count)

	var row model.SimRun
	require.NoError(t, db.First(&row, run.ID).Error)
	assert.NotNil(t, row.EndedAt)
}

func TestRecordResult_PayloadRoundTrips(t *testing.T) {
	b, db := testBackend(t, 1)
	run := testRun()
	require.NoError(t, b.StartRun(run))

	in := result(5)
	prob := 0.84
	label := 1
	in.CrashPredicted = &label
	in.CrashProbability = &prob
	require.NoError(t, b.RecordResult(in))

	var row model.TripRecord
	require.NoError(t, db.Where("run_id = ?", run.ID).First(&row).Error)
	assert.Equal(t, 5, row.Tick)
	assert.Equal(t, 0.581, row.DangerScore)
	assert.Equal(t, "Good", row.Evaluation)

	var decoded core.ResultRecord
	require.NoError(t, json.Unmarshal(row.Payload, &decoded))
	assert.Equal(t, *in, decoded)
}

func TestRecordResult_WithoutRun(t *testing.T) {
	b, _ := testBackend(t, 10)

	err := b.RecordResult(result(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active run")
}

func TestEndRun_WithoutRun(t *testing.T) {
	b, _ := testBackend(t, 10)
	require.Error(t, b.EndRun())
}
