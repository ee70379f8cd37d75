// Package audit keeps a local trail of background write outcomes.
// Detached stage writes have no screen to report to once the user has
// moved on; the audit log makes their results inspectable after the fact.
// It records request outcomes only, never record data as a source of truth.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/denifrahman/deni-crm/internal/db"
	"github.com/denifrahman/deni-crm/internal/domain"
)

// Entry is one recorded write outcome.
type Entry struct {
	ID         int64
	Op         string
	RecordKind domain.RecordKind
	RecordID   int64
	Stage      string
	PriorStage string
	Success    bool
	Error      string
	CreatedAt  time.Time
}

// Store persists write outcomes to SQLite.
type Store struct {
	db db.DBTX
}

// NewStore creates a Store backed by the given database.
func NewStore(database db.DBTX) *Store {
	return &Store{db: database}
}

// Record appends one write outcome.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO write_audit (op, record_kind, record_id, stage, prior_stage, success, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Op, string(e.RecordKind), e.RecordID, e.Stage, e.PriorStage,
		boolToInt(e.Success), e.Error, e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries, most recent first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, op, record_kind, record_id, stage, prior_stage, success, error, created_at
		FROM write_audit
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind, createdAt string
		var success int
		if err := rows.Scan(&e.ID, &e.Op, &kind, &e.RecordID, &e.Stage, &e.PriorStage, &success, &e.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.RecordKind = domain.RecordKind(kind)
		e.Success = success != 0
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
