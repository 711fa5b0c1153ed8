// Package snapshot persists the full slot keyset and record state to a
// sqlite database so record history survives restarts.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// sqlite driver registration.
	_ "github.com/mattn/go-sqlite3"

	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/internal/domain/slots"
	"github.com/okian/srcwatch/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	key            TEXT PRIMARY KEY,
	category_id    TEXT NOT NULL,
	level_id       TEXT NOT NULL DEFAULT '',
	choices        TEXT NOT NULL DEFAULT '[]',
	record_run_id  TEXT NOT NULL DEFAULT '',
	record_seconds REAL NOT NULL DEFAULT 0,
	updated_at     INTEGER NOT NULL DEFAULT 0
);`

// Store reads and writes slot snapshots. Saves replace the whole snapshot in
// one transaction so a mid-write interruption never corrupts committed state.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the snapshot database at path and ensures the
// schema exists. Schema or integrity failures surface here as startup errors.
func Open(ctx context.Context, path string) (*Store, error) {
	s := &Store{path: path}

	// WAL keeps reads consistent during the snapshot replace; busy_timeout
	// covers the rare external reader.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	s.db = db
	return s, nil
}

// Load returns persisted record state keyed by slot key. Rows for slots with
// no record are returned with an empty record so callers can distinguish
// "persisted empty" from "missing".
func (s *Store) Load(ctx context.Context) (map[string]slots.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, record_run_id, record_seconds FROM slots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer rows.Close()

	out := make(map[string]slots.Record)
	for rows.Next() {
		var key, runID string
		var seconds float64
		if err := rows.Scan(&key, &runID, &seconds); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
		out[key] = slots.Record{RunID: runID, Seconds: seconds}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return out, nil
}

// Save writes the full snapshot, replacing whatever was stored before. The
// delete and all inserts commit atomically.
func (s *Store) Save(ctx context.Context, ss []*slots.Slot) error {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordSnapshotError()
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots`); err != nil {
		metrics.RecordSnapshotError()
		return fmt.Errorf("%w: %v", ErrSave, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO slots (key, category_id, level_id, choices, record_run_id, record_seconds, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		metrics.RecordSnapshotError()
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, slot := range ss {
		choices, err := marshalChoices(slot.Choices)
		if err != nil {
			metrics.RecordSnapshotError()
			return fmt.Errorf("%w: %v", ErrSave, err)
		}
		if _, err := stmt.ExecContext(ctx,
			slot.Key(), slot.CategoryID, slot.LevelID, choices,
			slot.Record.RunID, slot.Record.Seconds, now,
		); err != nil {
			metrics.RecordSnapshotError()
			return fmt.Errorf("%w: %v", ErrSave, err)
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordSnapshotError()
		return fmt.Errorf("%w: %v", ErrSave, err)
	}

	metrics.RecordSnapshotSave(time.Since(start).Seconds())
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func marshalChoices(cs []model.VariantChoice) (string, error) {
	if len(cs) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(cs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
