package database

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/logging"
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrations embed.FS

// goose keeps its dialect and logger in package state.
var gooseMu sync.Mutex

func gooseTarget(driver string) (dialect, dir string, err error) {
	switch driver {
	case config.DriverSQLite, "":
		return "sqlite3", "migrations/sqlite", nil
	case config.DriverMySQL:
		return "mysql", "migrations/mysql", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Migrate applies all pending schema migrations for the driver backing db.
func Migrate(db *sql.DB, logger zerolog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dialect, dir, err := gooseTarget(DriverName(db))
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(logging.Printf{Logger: logger.With().Str("component", "migrate").Logger()})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// SchemaVersion returns the latest applied migration version.
func SchemaVersion(db *sql.DB) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dialect, _, err := gooseTarget(DriverName(db))
	if err != nil {
		return 0, err
	}

	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("failed to set migration dialect: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	return version, nil
}
