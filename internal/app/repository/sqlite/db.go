package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS unit_runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT      NOT NULL,
	stage         TEXT      NOT NULL,
	unit          TEXT      NOT NULL,
	input_path    TEXT,
	output_path   TEXT,
	outcome       TEXT      NOT NULL,
	error_message TEXT,
	duration_ms   INTEGER   NOT NULL DEFAULT 0,
	audio_seconds REAL      NOT NULL DEFAULT 0,
	processed_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_unit_runs_processed_at ON unit_runs (processed_at);
`

// SQLiteDB is the default ledger, a single file next to the meeting data.
type SQLiteDB struct {
	*repository.CommonDB
}

// NewSQLiteDB opens (creating if needed) the ledger at dbFilePath.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbFilePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dbFilePath))
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDatabaseConnection, "open %s: %v", dbFilePath, err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteDB{CommonDB: repository.NewCommonDB(db, "sqlite3")}, nil
}
