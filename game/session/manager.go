package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/content"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/engine"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/quiz"
	"github.com/opd-ai/LobeLabyrinth-sub002/game/service"
)

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	store    SnapshotStore
	packs    service.PackManager
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewManager creates a session manager without persistence. Sessions live
// only in memory and Save/SaveAll are no-ops.
func NewManager(packs service.PackManager) *Manager {
	return NewManagerWithStore(packs, nil, nil)
}

// NewManagerWithStore creates a session manager backed by a snapshot
// store. Sessions not in memory are rehydrated from the store on access.
func NewManagerWithStore(packs service.PackManager, store SnapshotStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*service.Session),
		store:    store,
		packs:    packs,
		logger:   logger,
	}
}

// Create creates a new session playing the given pack. An empty ID gets a
// generated one.
func (m *Manager) Create(id string, pack *content.Pack) (*service.Session, error) {
	if id == "" {
		id = generateSessionID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Session IDs are case-insensitive.
	if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return nil, service.ErrSessionAlreadyExists
	}

	progression, err := engine.New(pack)
	if err != nil {
		return nil, fmt.Errorf("failed to create progression engine: %w", err)
	}

	session := &service.Session{
		ID:             id,
		PackID:         pack.ID,
		Progression:    progression,
		Quiz:           quiz.New(pack),
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[strings.ToLower(id)] = session

	if m.store != nil {
		if err := m.store.Save(context.Background(), persistedFrom(session)); err != nil {
			m.logger.Warn("failed to persist new session", "session_id", id, "error", err)
		}
	}

	return session, nil
}

// Get retrieves a session by ID (case-insensitive). A session missing from
// memory but present in the store is rehydrated and cached.
func (m *Manager) Get(ctx context.Context, id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	if m.store != nil && m.store.Exists(ctx, id) {
		return m.loadFromStore(ctx, id)
	}

	return nil, service.ErrSessionNotFound
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session from memory and from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	_, inMemory := m.sessions[lowerID]
	delete(m.sessions, lowerID)

	if m.store != nil && m.store.Exists(ctx, id) {
		if err := m.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return service.ErrSessionNotFound
	}
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return service.ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	return nil
}

// Save snapshots a session into the store. Without a store it is a no-op
// so in-memory deployments keep working.
func (m *Manager) Save(ctx context.Context, id string) error {
	if m.store == nil {
		return nil
	}

	// Snapshot under the lock: UpdateLastAccessed mutates the session's
	// timestamps concurrently with read-path saves.
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	var snapshot *PersistedSession
	if exists {
		snapshot = persistedFrom(session)
	}
	m.mu.RUnlock()

	if !exists {
		return service.ErrSessionNotFound
	}

	return m.store.Save(ctx, snapshot)
}

// Load replaces the in-memory session with its stored snapshot and
// returns it.
func (m *Manager) Load(ctx context.Context, id string) (*service.Session, error) {
	if m.store == nil {
		return nil, &PersistenceError{Op: "load", ID: id, Err: errors.New("no snapshot store configured")}
	}
	return m.loadFromStore(ctx, id)
}

// SaveAll snapshots every in-memory session. Individual failures are
// logged and aggregated rather than aborting the sweep.
func (m *Manager) SaveAll(ctx context.Context) error {
	if m.store == nil {
		return nil
	}

	m.mu.RLock()
	snapshots := make([]*PersistedSession, 0, len(m.sessions))
	for _, session := range m.sessions {
		snapshots = append(snapshots, persistedFrom(session))
	}
	m.mu.RUnlock()

	errorCount := 0
	for _, snapshot := range snapshots {
		if err := m.store.Save(ctx, snapshot); err != nil {
			m.logger.Warn("failed to save session", "session_id", snapshot.ID, "error", err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d of %d sessions", errorCount, len(snapshots))
	}
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in
// the given duration and returns how many were dropped. Stored snapshots
// are kept so expired sessions can still be rehydrated.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadPersistedSessions rehydrates every stored session into memory,
// typically at startup. Sessions that fail to rehydrate are skipped with
// a warning.
func (m *Manager) LoadPersistedSessions(ctx context.Context) error {
	if m.store == nil {
		return nil
	}

	ids, err := m.store.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	loaded := 0
	for _, id := range ids {
		m.mu.RLock()
		_, exists := m.sessions[strings.ToLower(id)]
		m.mu.RUnlock()
		if exists {
			continue
		}

		if _, err := m.loadFromStore(ctx, id); err != nil {
			m.logger.Warn("failed to load persisted session", "session_id", id, "error", err)
			continue
		}
		loaded++
	}

	if loaded > 0 {
		m.logger.Info("loaded persisted sessions", "count", loaded)
	}
	return nil
}

// loadFromStore rehydrates one session from its snapshot and caches it.
func (m *Manager) loadFromStore(ctx context.Context, id string) (*service.Session, error) {
	data, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	session, err := m.rehydrate(ctx, data)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[strings.ToLower(session.ID)] = session
	m.mu.Unlock()

	return session, nil
}

// rehydrate rebuilds the engines from a stored snapshot. The pack must
// still be available and the snapshot must validate against it.
func (m *Manager) rehydrate(ctx context.Context, data *PersistedSession) (*service.Session, error) {
	pack, err := m.packs.GetPack(ctx, data.PackID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pack %q for session %q: %w", data.PackID, data.ID, err)
	}

	progression, err := engine.New(pack)
	if err != nil {
		return nil, fmt.Errorf("failed to create progression engine: %w", err)
	}
	if err := progression.RestoreSnapshot(data.Progression); err != nil {
		return nil, fmt.Errorf("failed to restore progression for session %q: %w", data.ID, err)
	}

	quizEngine := quiz.New(pack)
	if err := quizEngine.RestoreSnapshot(data.Quiz); err != nil {
		return nil, fmt.Errorf("failed to restore quiz state for session %q: %w", data.ID, err)
	}

	return &service.Session{
		ID:             data.ID,
		PackID:         data.PackID,
		Progression:    progression,
		Quiz:           quizEngine,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// persistedFrom snapshots a live session into its stored shape.
func persistedFrom(session *service.Session) *PersistedSession {
	return &PersistedSession{
		ID:             session.ID,
		PackID:         session.PackID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		SavedAt:        time.Now().UTC(),
		Progression:    session.Progression.Snapshot(),
		Quiz:           session.Quiz.Snapshot(),
	}
}

// generateSessionID returns a short random session ID
func generateSessionID() string {
	return uuid.NewString()[:8]
}
