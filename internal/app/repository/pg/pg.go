package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS unit_runs (
	id            BIGSERIAL PRIMARY KEY,
	run_id        TEXT             NOT NULL,
	stage         TEXT             NOT NULL,
	unit          TEXT             NOT NULL,
	input_path    TEXT,
	output_path   TEXT,
	outcome       TEXT             NOT NULL,
	error_message TEXT,
	duration_ms   BIGINT           NOT NULL DEFAULT 0,
	audio_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
	processed_at  TIMESTAMPTZ      NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_unit_runs_processed_at ON unit_runs (processed_at);
`

// PostgresDB is the shared ledger for setups with several machines.
type PostgresDB struct {
	*repository.CommonDB
}

// NewPostgresDB connects with connectionString and ensures the schema.
func NewPostgresDB(ctx context.Context, connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDatabaseConnection, "open: %v", err)
	}
	return newPostgresDB(ctx, db)
}

func newPostgresDB(ctx context.Context, db *sql.DB) (*PostgresDB, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.Wrapf(apperrors.ErrDatabaseConnection, "ping: %v", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &PostgresDB{CommonDB: repository.NewCommonDB(db, "postgres")}, nil
}
