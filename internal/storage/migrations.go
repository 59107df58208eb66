package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Key-value entries",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS kv_entries (
					key TEXT PRIMARY KEY,
					value BLOB NOT NULL,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Ledger tables",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS customers (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					mobile TEXT NOT NULL,
					credit REAL NOT NULL DEFAULT 0
				)`,
				`CREATE TABLE IF NOT EXISTS suppliers (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					mobile TEXT NOT NULL,
					credit REAL NOT NULL DEFAULT 0
				)`,
				`CREATE TABLE IF NOT EXISTS investments (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					mobile TEXT NOT NULL DEFAULT '',
					type TEXT NOT NULL CHECK (type IN ('given', 'taken')),
					amount REAL NOT NULL,
					date DATETIME NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS checks (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					number TEXT NOT NULL,
					bank TEXT NOT NULL,
					amount REAL NOT NULL,
					name TEXT NOT NULL,
					contact TEXT NOT NULL,
					type TEXT NOT NULL CHECK (type IN ('coming', 'given')),
					date TEXT NOT NULL,
					status TEXT NOT NULL CHECK (status IN ('pending', 'cleared', 'bounced'))
				)`,
				`CREATE TABLE IF NOT EXISTS admin_profile (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					shop_name TEXT NOT NULL DEFAULT '',
					admin_name TEXT NOT NULL DEFAULT '',
					contact_number TEXT NOT NULL DEFAULT '',
					address TEXT NOT NULL DEFAULT '',
					shop_logo TEXT NOT NULL DEFAULT '',
					ledger_version INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			})
		},
	},
	{
		Version:     3,
		Description: "Index status and type filters",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE INDEX IF NOT EXISTS idx_checks_status ON checks(status)`,
				`CREATE INDEX IF NOT EXISTS idx_checks_type ON checks(type)`,
				`CREATE INDEX IF NOT EXISTS idx_investments_type ON investments(type)`,
			})
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
