package session

import (
	"context"
	"sync"

	"github.com/akowalsk/scopeview/pkg/observability"
)

// MemoryStore is an in-process marker store for tests and throwaway
// sessions. Contents are lost when the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	captures map[string]map[int64][]Marker
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{captures: make(map[string]map[int64][]Marker)}
}

// Load retrieves all marker collections for a capture.
func (s *MemoryStore) Load(ctx context.Context, captureID string) (map[int64][]Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64][]Marker, len(s.captures[captureID]))
	count := 0
	for ts, ms := range s.captures[captureID] {
		cp := make([]Marker, len(ms))
		copy(cp, ms)
		out[ts] = cp
		count += len(cp)
	}
	observability.Store().OnMarkerLoad(ctx, "memory", count, nil)
	return out, nil
}

// Save stores all marker collections for a capture.
func (s *MemoryStore) Save(ctx context.Context, captureID string, markers map[int64][]Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(map[int64][]Marker, len(markers))
	count := 0
	for ts, ms := range markers {
		cp := make([]Marker, len(ms))
		copy(cp, ms)
		stored[ts] = cp
		count += len(cp)
	}
	s.captures[captureID] = stored
	observability.Store().OnMarkerSave(ctx, "memory", count, nil)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
