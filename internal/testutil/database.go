// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"infinite-experiment/skywatch/internal/catalog"
	"infinite-experiment/skywatch/internal/db"
)

// SetupTestDB opens a migrated in-memory SQLite database seeded with the default catalog.
// The GORM and sqlx handles share one connection and are closed when the test ends.
func SetupTestDB(t *testing.T) (*gorm.DB, *sqlx.DB) {
	t.Helper()

	orm, err := db.InitSQLiteORM(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(orm); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	if err := db.Seed(context.Background(), orm, catalog.Default()); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}

	raw, err := db.WrapORM(orm, "sqlite3")
	if err != nil {
		t.Fatalf("failed to wrap test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := orm.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return orm, raw
}
