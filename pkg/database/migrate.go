package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// RunMigrations creates the flagged transaction schema if absent. Safe to call on every start.
// For postgres dsn is the primary DSN without scheme; for sqlite it is the database file path.
func RunMigrations(logger *zap.Logger, driver, dsn string) error {
	var dir, url string
	switch driver {
	case pkg.DriverPostgres:
		dir, url = "migrations/postgres", "pgx5://"+dsn
	case pkg.DriverSQLite:
		dir, url = "migrations/sqlite", "sqlite3://"+dsn
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	d, err := iofs.New(migrations, dir)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", d, url)
	if err != nil {
		return err
	}
	defer func(m *migrate.Migrate) {
		_, _ = m.Close()
	}(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	logger.Info("database_migrations_applied", zap.String("driver", driver))
	return nil
}
