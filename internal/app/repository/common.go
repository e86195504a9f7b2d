package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/model"
)

// CommonDB provides shared database functionality
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
	}
}

var unitColumns = []string{
	"run_id", "stage", "unit", "input_path", "output_path",
	"outcome", "error_message", "duration_ms", "audio_seconds", "processed_at",
}

// Record inserts rec and stores the generated id back into it.
func (c *CommonDB) Record(ctx context.Context, rec *model.UnitRecord) error {
	params := make([]string, len(unitColumns))
	for i := range params {
		params[i] = c.placeholders(i + 1)
	}

	query := fmt.Sprintf(
		`INSERT INTO unit_runs (%s) VALUES (%s)`,
		strings.Join(unitColumns, ", "),
		strings.Join(params, ", "),
	)

	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now()
	}

	args := []interface{}{
		rec.RunID, string(rec.Stage), rec.Unit, rec.InputPath, rec.OutputPath,
		string(rec.Outcome), rec.ErrorMessage, rec.Duration.Milliseconds(), rec.AudioSeconds, rec.ProcessedAt.UTC(),
	}

	if c.driverName == "postgres" {
		if err := c.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&rec.ID); err != nil {
			return apperrors.Wrapf(apperrors.ErrInsertFailed, "%s %s: %v", rec.Stage, rec.Unit, err)
		}
		return nil
	}

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInsertFailed, "%s %s: %v", rec.Stage, rec.Unit, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (c *CommonDB) Recent(ctx context.Context, limit int) ([]model.UnitRecord, error) {
	query := fmt.Sprintf(
		`SELECT id, %s FROM unit_runs ORDER BY processed_at DESC, id DESC LIMIT %s`,
		strings.Join(unitColumns, ", "),
		c.placeholders(1),
	)

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrQueryFailed, "recent units: %v", err)
	}
	defer rows.Close()

	records := make([]model.UnitRecord, 0)
	for rows.Next() {
		var (
			r          model.UnitRecord
			stage      string
			outcome    string
			durationMs int64
			inputPath  sql.NullString
			outputPath sql.NullString
			errMsg     sql.NullString
		)
		err := rows.Scan(
			&r.ID,
			&r.RunID,
			&stage,
			&r.Unit,
			&inputPath,
			&outputPath,
			&outcome,
			&errMsg,
			&durationMs,
			&r.AudioSeconds,
			&r.ProcessedAt,
		)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrQueryFailed, "scan: %v", err)
		}
		r.Stage = model.Stage(stage)
		r.Outcome = model.Outcome(outcome)
		r.InputPath = inputPath.String
		r.OutputPath = outputPath.String
		r.ErrorMessage = errMsg.String
		r.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrQueryFailed, "rows: %v", err)
	}

	return records, nil
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}
