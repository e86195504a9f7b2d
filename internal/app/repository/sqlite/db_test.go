package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-recap/internal/app/model"
	"meeting-recap/internal/app/repository"
)

func TestSQLiteDB_Interface(t *testing.T) {
	var _ repository.UnitDAO = (*SQLiteDB)(nil)
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	db, err := NewSQLiteDB(path)
	require.NoError(t, err)
	defer db.Close()

	base := time.Date(2025, 4, 4, 9, 0, 0, 0, time.UTC)
	records := []*model.UnitRecord{
		{RunID: "r1", Stage: model.StageTranscribe, Unit: "Call", InputPath: "/a/Call.m4a", OutputPath: "/t/Call.txt", Outcome: model.OutcomeDone, Duration: 1500 * time.Millisecond, AudioSeconds: 62.5, ProcessedAt: base},
		{RunID: "r1", Stage: model.StageTranscribe, Unit: "Broken", Outcome: model.OutcomeFailed, ErrorMessage: "boom", ProcessedAt: base.Add(time.Minute)},
		{RunID: "r1", Stage: model.StageSummarize, Unit: "Call", Outcome: model.OutcomeSkipped, ProcessedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range records {
		require.NoError(t, db.Record(ctx, rec))
		assert.NotZero(t, rec.ID)
	}

	got, err := db.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.StageSummarize, got[0].Stage)
	assert.Equal(t, model.OutcomeSkipped, got[0].Outcome)
	assert.Equal(t, "Broken", got[1].Unit)
	assert.Equal(t, model.OutcomeFailed, got[1].Outcome)
	assert.Equal(t, "boom", got[1].ErrorMessage)

	all, err := db.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	first := all[2]
	assert.Equal(t, "r1", first.RunID)
	assert.Equal(t, "/a/Call.m4a", first.InputPath)
	assert.Equal(t, 1500*time.Millisecond, first.Duration)
	assert.InDelta(t, 62.5, first.AudioSeconds, 0.001)
	assert.True(t, base.Equal(first.ProcessedAt))
}

func TestReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	db, err := NewSQLiteDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Record(ctx, &model.UnitRecord{RunID: "r1", Stage: model.StageDigest, Unit: "all_summaries.md", Outcome: model.OutcomeDone}))
	require.NoError(t, db.Close())

	db, err = NewSQLiteDB(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.False(t, got[0].ProcessedAt.IsZero())
}
