package repository

import (
	"context"
	"fmt"

	"spendo/pkg/config"
	"spendo/pkg/postgres"
	"spendo/pkg/sqlite"

	"go.uber.org/zap"
)

// Open connects the record repository selected by cfg.Store.Driver and applies
// its migrations. The returned close func releases the underlying connection.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (RecordRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := RunPostgresMigrations(cfg.Database.DSN()); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return NewPostgresRecordRepository(pool, logger), pool.Close, nil

	case config.StoreDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := RunSQLiteMigrations(cfg.SQLite.Path); err != nil {
			db.Close()
			return nil, nil, err
		}
		return NewSQLiteRecordRepository(db, logger), func() { db.Close() }, nil

	case config.StoreDriverMemory:
		logger.Warn("Using in-memory record store; data is lost on exit")
		return NewMemoryRecordRepository(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
