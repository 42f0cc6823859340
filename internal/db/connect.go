package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"infinite-experiment/skywatch/internal/catalog"
	"infinite-experiment/skywatch/internal/config"
	"infinite-experiment/skywatch/internal/logging"
)

// Connect opens both handles, migrates the schema and seeds the catalog.
// On failure every handle opened so far is closed.
func Connect(ctx context.Context, cfg *config.Config) (*gorm.DB, *sqlx.DB, error) {
	orm, err := OpenORM(cfg)
	if err != nil {
		return nil, nil, err
	}

	raw, err := OpenSQLX(cfg, orm)
	if err != nil {
		closeHandles(orm, nil)
		return nil, nil, err
	}

	if err := prepare(ctx, orm, catalog.Default()); err != nil {
		closeHandles(orm, raw)
		return nil, nil, err
	}

	logging.Info("Database ready", "driver", cfg.DBDriver)
	return orm, raw, nil
}

func prepare(ctx context.Context, orm *gorm.DB, cat *catalog.Catalog) error {
	if err := Migrate(orm); err != nil {
		return err
	}
	if err := Seed(ctx, orm, cat); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}

// closeHandles releases the sqlx pool and GORM's pool; in sqlite mode they are the same pool
func closeHandles(orm *gorm.DB, raw *sqlx.DB) {
	if raw != nil {
		if err := raw.Close(); err != nil {
			logging.Warn("Failed to close sqlx pool", "error", err)
		}
	}
	if orm == nil {
		return
	}
	sqlDB, err := orm.DB()
	if err != nil {
		return
	}
	if raw != nil && raw.DB == sqlDB {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logging.Warn("Failed to close ORM pool", "error", err)
	}
}
