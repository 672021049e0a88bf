package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/logging"
)

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: MemoryPath})
	if err != nil {
		t.Fatalf("Open() returned unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db, logging.Nop()); err != nil {
		t.Fatalf("Migrate() returned unexpected error: %v", err)
	}
	return db
}

func TestOpen(t *testing.T) {
	t.Run("rejects unknown driver", func(t *testing.T) {
		if _, err := Open(config.DatabaseConfig{Driver: "postgres"}); err == nil {
			t.Error("Expected error for unsupported driver")
		}
	})

	t.Run("file databases use write-ahead logging", func(t *testing.T) {
		db, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "wealth.db")})
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		t.Cleanup(func() { db.Close() })

		var mode string
		if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("Failed to read journal mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("Expected journal mode wal, got %q", mode)
		}
	})

	t.Run("reports sqlite driver without row locks", func(t *testing.T) {
		db := openMigrated(t)

		if got := DriverName(db); got != config.DriverSQLite {
			t.Errorf("Expected driver %q, got %q", config.DriverSQLite, got)
		}
		if got := RowLockClause(db); got != "" {
			t.Errorf("Expected no row lock clause, got %q", got)
		}
		if err := HealthCheck(db); err != nil {
			t.Errorf("HealthCheck() returned unexpected error: %v", err)
		}
	})
}

func TestMigrate(t *testing.T) {
	t.Run("creates schema and records version", func(t *testing.T) {
		db := openMigrated(t)

		version, err := SchemaVersion(db)
		if err != nil {
			t.Fatalf("SchemaVersion() returned unexpected error: %v", err)
		}
		if version != 1 {
			t.Errorf("Expected schema version 1, got %d", version)
		}

		for _, table := range []string{"users", "accounts", "asset_types", "assets", "portfolios", "investments", "transactions"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
			if err != nil {
				t.Errorf("Expected table %s to exist: %v", table, err)
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		db := openMigrated(t)

		if err := Migrate(db, logging.Nop()); err != nil {
			t.Errorf("Second Migrate() returned unexpected error: %v", err)
		}
	})
}

func TestClassify(t *testing.T) {
	db := openMigrated(t)

	insertUser := func(id, username string) error {
		_, err := db.Exec(
			"INSERT INTO users (user_id, username, password_hash, role, created_at) VALUES (?, ?, 'x', 'user', '2024-01-01 00:00:00')",
			id, username,
		)
		return err
	}

	if err := insertUser("u1", "alice"); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	t.Run("unique violation is a duplicate", func(t *testing.T) {
		err := Wrap("insert user", insertUser("u2", "alice"))

		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("Expected ErrDuplicateEntry, got %v", err)
		}
	})

	t.Run("foreign key violation is a constraint error", func(t *testing.T) {
		_, err := db.Exec(
			"INSERT INTO portfolios (portfolio_id, user_id, portfolio_name, created_at) VALUES ('p1', 'missing', 'x', '2024-01-01 00:00:00')",
		)

		if Classify(err) != apperrors.StoreConstraint {
			t.Errorf("Expected constraint kind, got %s (%v)", Classify(err), err)
		}
	})

	t.Run("check violation is a constraint error", func(t *testing.T) {
		err := Wrap("insert user", func() error {
			_, err := db.Exec(
				"INSERT INTO users (user_id, username, password_hash, role, created_at) VALUES ('u3', 'bob', 'x', 'root', '2024-01-01 00:00:00')",
			)
			return err
		}())

		if !errors.Is(err, apperrors.ErrConstraintViolation) {
			t.Errorf("Expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("other errors are failures", func(t *testing.T) {
		if kind := Classify(errors.New("disk full")); kind != apperrors.StoreFailure {
			t.Errorf("Expected failure kind, got %s", kind)
		}
		if Wrap("noop", nil) != nil {
			t.Error("Expected nil for nil error")
		}
	})
}
