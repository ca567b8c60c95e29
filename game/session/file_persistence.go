package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opd-ai/LobeLabyrinth-sub002/game/service"
)

// FileStore implements SnapshotStore using one JSON file per session.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based snapshot store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &PersistenceError{Op: "init", Err: fmt.Errorf("failed to create sessions directory: %w", err)}
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the snapshot as an indented JSON file.
func (fs *FileStore) Save(ctx context.Context, data *PersistedSession) error {
	if data == nil || data.ID == "" {
		return &PersistenceError{Op: "save", Err: fmt.Errorf("snapshot must have a session id")}
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", ID: data.ID, Err: err}
	}

	if err := os.WriteFile(fs.filePath(data.ID), jsonData, 0644); err != nil {
		return &PersistenceError{Op: "save", ID: data.ID, Err: err}
	}
	return nil
}

// Load reads a snapshot back from its JSON file.
func (fs *FileStore) Load(ctx context.Context, id string) (*PersistedSession, error) {
	jsonData, err := os.ReadFile(fs.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, service.ErrSessionNotFound
		}
		return nil, &PersistenceError{Op: "load", ID: id, Err: err}
	}

	var data PersistedSession
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, &PersistenceError{Op: "load", ID: id, Err: fmt.Errorf("corrupt session file: %w", err)}
	}
	return &data, nil
}

// Delete removes a session file
func (fs *FileStore) Delete(ctx context.Context, id string) error {
	if !fs.Exists(ctx, id) {
		return service.ErrSessionNotFound
	}
	if err := os.Remove(fs.filePath(id)); err != nil {
		return &PersistenceError{Op: "delete", ID: id, Err: err}
	}
	return nil
}

// ListIDs returns all persisted session IDs
func (fs *FileStore) ListIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

// Exists checks if a session file exists
func (fs *FileStore) Exists(ctx context.Context, id string) bool {
	_, err := os.Stat(fs.filePath(id))
	return err == nil
}

// Close is a no-op for file storage.
func (fs *FileStore) Close() error {
	return nil
}

// filePath maps a session ID to its file. IDs are lowercased and stripped
// of path separators so a crafted ID cannot escape the directory.
func (fs *FileStore) filePath(id string) string {
	safe := strings.ToLower(id)
	safe = strings.ReplaceAll(safe, "/", "_")
	safe = strings.ReplaceAll(safe, "\\", "_")
	safe = strings.ReplaceAll(safe, "..", "_")
	return filepath.Join(fs.dir, safe+".json")
}
