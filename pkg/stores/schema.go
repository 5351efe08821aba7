package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaVersion is the current schema version recorded in the ledger.
const schemaVersion = 1

// Migrate creates all tables and indexes if absent and records the current
// schema version in the ledger. Idempotent: re-running it on an up-to-date
// database changes nothing, and a version already present in the ledger is
// not inserted again.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// IsSeeded reports whether the store contains at least one quote. A store
// that was never migrated reports false, not an error.
func (s *SQLiteStore) IsSeeded(ctx context.Context) (bool, error) {
	if s.db == nil {
		return false, nil
	}

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quotes").Scan(&count)
	if err != nil {
		if isMissingTable(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to count quotes: %w", err)
	}
	return count > 0, nil
}

// SchemaVersion returns the highest recorded schema version, or 0 when the
// store is unversioned or absent.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, nil
	}

	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil {
		if isMissingTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}

// MigrateSchema is reserved for future schema evolution and always fails
// with ErrMigrationUnsupported.
func (s *SQLiteStore) MigrateSchema(_ context.Context, from, to int) error {
	return fmt.Errorf("migration from v%d to v%d: %w", from, to, ErrMigrationUnsupported)
}

func isMissingTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
