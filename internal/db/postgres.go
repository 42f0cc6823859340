package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"infinite-experiment/skywatch/internal/config"
)

// OpenSQLX returns the raw-query handle. Postgres gets its own lib/pq pool;
// sqlite shares GORM's single connection so both see the same database.
func OpenSQLX(cfg *config.Config, orm *gorm.DB) (*sqlx.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return WrapORM(orm, "sqlite3")
	}
	return InitPostgres(cfg.PostgresDSN())
}

func InitPostgres(dsn string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres: %w", err)
}

// WrapORM exposes GORM's *sql.DB through sqlx
func WrapORM(orm *gorm.DB, driverName string) (*sqlx.DB, error) {
	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access ORM pool: %w", err)
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}
