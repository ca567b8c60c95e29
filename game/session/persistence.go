package session

import (
	"context"
	"fmt"
	"time"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/engine"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/quiz"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/service"
)

// SnapshotStore defines the storage backend for session snapshots. File,
// Redis, and SQLite implementations are provided; all of them key by the
// lowercased session ID.
type SnapshotStore interface {
	// Save writes a session snapshot, replacing any previous one.
	Save(ctx context.Context, data *PersistedSession) error

	// Load retrieves a snapshot by session ID.
	Load(ctx context.Context, id string) (*PersistedSession, error)

	// Delete removes a snapshot from storage.
	Delete(ctx context.Context, id string) error

	// ListIDs returns all persisted session IDs.
	ListIDs(ctx context.Context) ([]string, error)

	// Exists checks if a snapshot exists in storage.
	Exists(ctx context.Context, id string) bool

	// Close releases the backend's resources.
	Close() error
}

// PersistedSession is the stored shape of a session: the pack reference,
// both engine snapshots, and the lifecycle timestamps. The active question
// is deliberately not part of it.
type PersistedSession struct {
	ID             string          `json:"id"`
	PackID         string          `json:"pack_id"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	SavedAt        time.Time       `json:"saved_at"`
	Progression    engine.Snapshot `json:"progression"`
	Quiz           quiz.Snapshot   `json:"quiz"`
}

// PersistenceError wraps a storage failure with the operation and the
// session it concerned.
type PersistenceError struct {
	Op  string
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("session store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("session store %s %q: %v", e.Op, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is matches the service's persistence sentinel so command boundaries can
// classify storage failures with errors.Is.
func (e *PersistenceError) Is(target error) bool {
	return target == service.ErrPersistenceFailure
}
