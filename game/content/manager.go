package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Manager wraps a Source with an expiring in-memory cache. Concurrent
// requests for the same uncached pack are collapsed into a single source
// load via singleflight, so a burst of session creations against a slow
// source costs one read.
type Manager struct {
	source    Source
	defaultID string
	ttl       time.Duration

	mu    sync.RWMutex
	cache map[string]cachedPack
	group singleflight.Group
	now   func() time.Time
}

type cachedPack struct {
	pack      *Pack
	expiresAt time.Time
}

// NewManager creates a pack manager. defaultID names the pack served when a
// caller does not specify one. A ttl of zero caches packs forever.
func NewManager(source Source, defaultID string, ttl time.Duration) *Manager {
	return &Manager{
		source:    source,
		defaultID: defaultID,
		ttl:       ttl,
		cache:     make(map[string]cachedPack),
		now:       time.Now,
	}
}

// DefaultID returns the id of the default pack.
func (m *Manager) DefaultID() string {
	return m.defaultID
}

// GetPack returns the pack with the given id, serving from cache when the
// entry is still fresh.
func (m *Manager) GetPack(ctx context.Context, id string) (*Pack, error) {
	if id == "" {
		id = m.defaultID
	}

	m.mu.RLock()
	entry, ok := m.cache[id]
	m.mu.RUnlock()
	if ok && (m.ttl == 0 || m.now().Before(entry.expiresAt)) {
		return entry.pack, nil
	}

	result, err, _ := m.group.Do(id, func() (any, error) {
		pack, err := m.source.LoadPack(ctx, id)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.cache[id] = cachedPack{pack: pack, expiresAt: m.now().Add(m.ttl)}
		m.mu.Unlock()
		return pack, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Pack), nil
}

// Default returns the default pack.
func (m *Manager) Default(ctx context.Context) (*Pack, error) {
	if m.defaultID == "" {
		return nil, fmt.Errorf("no default pack configured")
	}
	return m.GetPack(ctx, m.defaultID)
}

// List returns summaries of all packs the source knows about.
func (m *Manager) List(ctx context.Context) ([]PackInfo, error) {
	return m.source.ListPacks(ctx)
}

// Invalidate drops a single pack from the cache so the next GetPack hits
// the source again.
func (m *Manager) Invalidate(id string) {
	m.mu.Lock()
	delete(m.cache, id)
	m.mu.Unlock()
}

// Refresh clears the whole cache.
func (m *Manager) Refresh() {
	m.mu.Lock()
	m.cache = make(map[string]cachedPack)
	m.mu.Unlock()
}
