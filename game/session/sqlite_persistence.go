package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/service"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id       TEXT PRIMARY KEY,
	data     TEXT NOT NULL,
	saved_at TEXT NOT NULL
);`

// SQLiteStore implements SnapshotStore on an embedded SQLite database.
// Snapshots are stored as JSON in a single sessions table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &PersistenceError{Op: "init", Err: fmt.Errorf("database path is required")}
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &PersistenceError{Op: "init", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "init", Err: err}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "init", Err: fmt.Errorf("failed to create schema: %w", err)}
	}

	return &SQLiteStore{db: db}, nil
}

// Save upserts the snapshot row.
func (ss *SQLiteStore) Save(ctx context.Context, data *PersistedSession) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return &PersistenceError{Op: "save", ID: data.ID, Err: err}
	}

	_, err = ss.db.ExecContext(ctx,
		`INSERT INTO sessions (id, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		strings.ToLower(data.ID), string(payload), data.SavedAt.Format(time.RFC3339))
	if err != nil {
		return &PersistenceError{Op: "save", ID: data.ID, Err: err}
	}
	return nil
}

// Load reads and decodes a snapshot row.
func (ss *SQLiteStore) Load(ctx context.Context, id string) (*PersistedSession, error) {
	var payload string
	err := ss.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE id = ?`, strings.ToLower(id)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrSessionNotFound
		}
		return nil, &PersistenceError{Op: "load", ID: id, Err: err}
	}

	var data PersistedSession
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, &PersistenceError{Op: "load", ID: id, Err: err}
	}
	return &data, nil
}

// Delete removes a snapshot row.
func (ss *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := ss.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = ?`, strings.ToLower(id))
	if err != nil {
		return &PersistenceError{Op: "delete", ID: id, Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "delete", ID: id, Err: err}
	}
	if affected == 0 {
		return service.ErrSessionNotFound
	}
	return nil
}

// ListIDs returns every stored session ID.
func (ss *SQLiteStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := ss.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &PersistenceError{Op: "list", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return ids, nil
}

// Exists checks for a snapshot row.
func (ss *SQLiteStore) Exists(ctx context.Context, id string) bool {
	var one int
	err := ss.db.QueryRowContext(ctx,
		`SELECT 1 FROM sessions WHERE id = ?`, strings.ToLower(id)).Scan(&one)
	return err == nil
}

// Close closes the database.
func (ss *SQLiteStore) Close() error {
	return ss.db.Close()
}
