package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"meeting-recap/internal/app/model"
	"meeting-recap/internal/app/repository"
	"meeting-recap/internal/app/repository/pg"
	"meeting-recap/internal/app/repository/sqlite"
)

// SetupTestLedger opens a ledger for tests. POSTGRES_TEST_URL selects a real
// PostgreSQL database; otherwise a SQLite file under t.TempDir() is used.
func SetupTestLedger(t *testing.T) repository.UnitDAO {
	t.Helper()

	if pgURL := os.Getenv("POSTGRES_TEST_URL"); pgURL != "" {
		db, err := pg.NewPostgresDB(context.Background(), pgURL)
		if err != nil {
			t.Fatalf("Failed to connect to PostgreSQL test database: %v", err)
		}
		t.Cleanup(func() {
			db.DB().Exec("DELETE FROM unit_runs")
			db.Close()
		})
		return db
	}

	db, err := sqlite.NewSQLiteDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to create SQLite test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SeedLedger records one row per outcome for a fake run.
func SeedLedger(t *testing.T, dao repository.UnitDAO, runID string) {
	t.Helper()

	seed := []model.UnitRecord{
		{RunID: runID, Stage: model.StageTranscribe, Unit: "Weekly Sync 04-04-2025", Outcome: model.OutcomeDone, AudioSeconds: 1800},
		{RunID: runID, Stage: model.StageTranscribe, Unit: "Standup_0407", Outcome: model.OutcomeFailed, ErrorMessage: "network error: connection timeout"},
		{RunID: runID, Stage: model.StageSummarize, Unit: "Weekly Sync 04-04-2025", Outcome: model.OutcomeSkipped},
		{RunID: runID, Stage: model.StageActionItems, Unit: "Weekly Sync 04-04-2025", Outcome: model.OutcomeEmpty},
	}
	for i := range seed {
		if err := dao.Record(context.Background(), &seed[i]); err != nil {
			t.Fatalf("Failed to seed ledger: %v", err)
		}
	}
}
