package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/akowalsk/scopeview/pkg/observability"
)

// FileStore is a file-based marker store for CLI usage.
// Each capture's markers are stored as one JSON file in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based marker store.
// If baseDir is empty, defaults to ~/.config/scopeview/markers/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "scopeview", "markers")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create marker dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Load retrieves all marker collections for a capture.
// A capture with no stored markers yields an empty map, not an error.
func (s *FileStore) Load(ctx context.Context, captureID string) (map[int64][]Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(captureID))
	if os.IsNotExist(err) {
		observability.Store().OnMarkerLoad(ctx, "file", 0, nil)
		return make(map[int64][]Marker), nil
	}
	if err != nil {
		observability.Store().OnMarkerLoad(ctx, "file", 0, err)
		return nil, err
	}

	markers, err := decodeMarkers(data)
	observability.Store().OnMarkerLoad(ctx, "file", countMarkers(markers), err)
	if err != nil {
		return nil, err
	}
	return markers, nil
}

// Save stores all marker collections for a capture.
func (s *FileStore) Save(ctx context.Context, captureID string, markers map[int64][]Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeMarkers(markers)
	if err != nil {
		observability.Store().OnMarkerSave(ctx, "file", 0, err)
		return err
	}
	err = os.WriteFile(s.path(captureID), data, 0600)
	observability.Store().OnMarkerSave(ctx, "file", countMarkers(markers), err)
	return err
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// path maps a capture ID to its marker file.
func (s *FileStore) path(captureID string) string {
	return filepath.Join(s.baseDir, captureID+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
