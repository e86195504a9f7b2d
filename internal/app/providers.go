package app

import (
	"context"
	"fmt"

	"meeting-recap/internal/app/config"
	"meeting-recap/internal/app/pipeline"
	"meeting-recap/internal/app/publish"
	"meeting-recap/internal/app/repository"
	"meeting-recap/internal/app/repository/pg"
	"meeting-recap/internal/app/repository/sqlite"
)

// provideUnitDAO opens the ledger selected by ledger.driver. The cleanup
// closes it.
func provideUnitDAO(ctx context.Context, cfg *config.Config) (repository.UnitDAO, func(), error) {
	var (
		dao repository.UnitDAO
		err error
	)

	switch cfg.Ledger.Driver {
	case "sqlite":
		var db *sqlite.SQLiteDB
		if db, err = sqlite.NewSQLiteDB(cfg.Ledger.Path); err == nil {
			dao = db
		}
	case "postgres":
		var db *pg.PostgresDB
		if db, err = pg.NewPostgresDB(ctx, cfg.Ledger.DSN); err == nil {
			dao = db
		}
	case "none":
		dao = repository.NopDAO{}
	default:
		err = fmt.Errorf("unknown ledger driver: %s", cfg.Ledger.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = dao.Close()
	}
	return dao, cleanup, nil
}

// providePublisher returns nil when publishing is disabled.
func providePublisher(cfg *config.Config) (pipeline.Publisher, error) {
	if !cfg.Publish.Enabled {
		return nil, nil
	}
	publisher, err := publish.NewMinioPublisher(cfg.Publish)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}
