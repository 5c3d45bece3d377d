package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// fileDocument wraps the state with versioning metadata on disk.
type fileDocument struct {
	State
	Version string    `json:"version"`
	SavedAt time.Time `json:"savedAt"`
}

// FilePersister stores the snapshot as one JSON document on disk,
// written atomically via a temp file rename.
type FilePersister struct {
	Path string
}

// NewFilePersister builds a FilePersister for the given path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

// Load reads the snapshot. A missing file means a fresh installation;
// a malformed one is an error.
func (p *FilePersister) Load(ctx context.Context) (*State, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", p.Path, err)
	}
	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", p.Path, err)
	}
	return &doc.State, nil
}

// Save writes the snapshot atomically.
func (p *FilePersister) Save(ctx context.Context, st State) error {
	doc := fileDocument{State: st, Version: SnapshotVersion, SavedAt: time.Now().UTC()}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return fmt.Errorf("store: mkdir: %w", err)
	}
	tmp := p.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p.Path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	return nil
}
