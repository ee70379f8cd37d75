package db

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS write_audit (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		op          TEXT NOT NULL,
		record_kind TEXT NOT NULL,
		record_id   INTEGER NOT NULL,
		stage       TEXT NOT NULL DEFAULT '',
		prior_stage TEXT NOT NULL DEFAULT '',
		success     INTEGER NOT NULL,
		error       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_write_audit_created_at
		ON write_audit(created_at DESC)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
