package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrPackNotFound = errors.New("content pack not found")
)

// Source loads content packs from a backing store. Implementations must
// return fully defaulted, validated packs; a pack that fails validation is
// a load error, never a partial result.
type Source interface {
	// LoadPack retrieves and validates a single pack by id.
	LoadPack(ctx context.Context, id string) (*Pack, error)

	// ListPacks returns summaries of every pack the source can load.
	ListPacks(ctx context.Context) ([]PackInfo, error)
}

// FSSource reads packs from JSON files in a directory. The file name
// without the .json extension is the pack id.
type FSSource struct {
	dir string
}

// NewFSSource creates a filesystem-backed pack source.
func NewFSSource(dir string) (*FSSource, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("content directory does not exist: %s", dir)
	}
	return &FSSource{dir: dir}, nil
}

// LoadPack reads <dir>/<id>.json, applies defaults, and validates.
func (s *FSSource) LoadPack(ctx context.Context, id string) (*Pack, error) {
	path := filepath.Join(s.dir, id+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("pack %q: %w", id, ErrPackNotFound)
		}
		return nil, fmt.Errorf("read pack file: %w", err)
	}

	var pack Pack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse pack %q: %w", id, err)
	}
	if pack.ID == "" {
		pack.ID = id
	}

	pack.ApplyDefaults()
	if err := pack.Validate(); err != nil {
		return nil, err
	}

	return &pack, nil
}

// ListPacks scans the directory for *.json files and loads each to build
// its summary. Files that fail to load are skipped.
func (s *FSSource) ListPacks(ctx context.Context) ([]PackInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	var infos []PackInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		pack, err := s.LoadPack(ctx, id)
		if err != nil {
			continue
		}
		infos = append(infos, pack.Info())
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}
