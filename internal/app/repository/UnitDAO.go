package repository

import (
	"context"

	"meeting-recap/internal/app/model"
)

// UnitDAO records per-unit stage outcomes. Artifacts on disk decide what work
// remains; the ledger only reports what happened.
type UnitDAO interface {
	Close() error

	Record(ctx context.Context, rec *model.UnitRecord) error

	// Recent returns the newest records first.
	Recent(ctx context.Context, limit int) ([]model.UnitRecord, error)
}
