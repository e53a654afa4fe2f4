package store

import (
	"context"
	"database/sql"
	"fmt"

	"saikumar/sms-ledger/internal/logging"
)

// ExpectedSchemaVersion is the schema version this build writes.
const ExpectedSchemaVersion = 3

// Migration is one schema step.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries ...string) error {
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
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					timestamp_ms INTEGER NOT NULL,
					amount_minor INTEGER NOT NULL CHECK (amount_minor > 0),
					direction TEXT NOT NULL,
					category_id INTEGER,
					category_name TEXT NOT NULL DEFAULT '',
					merchant TEXT NOT NULL DEFAULT '',
					counterparty TEXT NOT NULL DEFAULT '',
					upi_id TEXT NOT NULL DEFAULT '',
					reference TEXT NOT NULL DEFAULT '',
					sender TEXT NOT NULL DEFAULT '',
					snippet TEXT NOT NULL DEFAULT '',
					snippet_truncated INTEGER NOT NULL DEFAULT 0,
					type TEXT NOT NULL,
					nature TEXT NOT NULL,
					matched_rule TEXT NOT NULL,
					confidence REAL NOT NULL DEFAULT 0,
					requires_confirmation INTEGER NOT NULL DEFAULT 0,
					reversal INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp_ms)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Indexes for similarity lookups",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX IF NOT EXISTS idx_transactions_upi ON transactions(upi_id)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_merchant ON transactions(merchant)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_reference ON transactions(reference)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Self-transfer links and nature audit columns",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE transactions ADD COLUMN linked_id TEXT`,
				`ALTER TABLE transactions ADD COLUMN rule_trace TEXT`,
				`ALTER TABLE transactions ADD COLUMN violations TEXT`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_confirmation ON transactions(requires_confirmation)`,
			)
		},
	},
}

// SchemaVersion returns the schema version recorded in the database.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return v, nil
}

// Migrate applies every migration newer than the recorded schema version.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		s.logger.Info("Applied migration",
			logging.Field{Key: "version", Value: m.Version},
			logging.Field{Key: "description", Value: m.Description})
	}

	final, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final)
	}
	return nil
}
