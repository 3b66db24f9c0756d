// Package session holds the state shared across a viewing session:
// named markers keyed by waveform timestamp, and display preferences.
//
// Markers belong to the session, not to any waveform group. Groups visit
// them by stable (timestamp, index) references so the session is free to
// grow or reorder the backing slices without invalidating a reference a
// group holds while dragging.
//
// Marker persistence goes through the Store interface, with
// implementations for different backends:
//   - memory: In-process storage for tests and throwaway sessions
//   - file: JSON files in a config directory for CLI usage
//   - redis: Redis-backed storage for shared lab deployments
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/akowalsk/scopeview/pkg/prefs"
)

// Marker is a named point on the X axis of one waveform acquisition.
type Marker struct {
	Name   string `json:"name"`
	Offset int64  `json:"offset"`
}

// MarkerRef is a stable reference to a marker: the acquisition timestamp
// that keys the collection plus the index within it. Valid until the
// marker at that index is deleted.
type MarkerRef struct {
	Timestamp int64
	Index     int
}

// Store persists marker collections between sessions.
type Store interface {
	// Load retrieves all marker collections for a capture.
	// Returns an empty map if the capture has no stored markers.
	Load(ctx context.Context, captureID string) (map[int64][]Marker, error)

	// Save stores all marker collections for a capture.
	Save(ctx context.Context, captureID string, markers map[int64][]Marker) error

	// Close releases backend resources.
	Close() error
}

// Session is the top-level mutable state for one viewing session.
// It is confined to the render goroutine; stores handle their own locking.
type Session struct {
	id      string
	prefs   *prefs.Prefs
	markers map[int64][]Marker
	nextNum int
}

// New creates an empty session with the given preferences.
// Nil preferences fall back to the defaults.
func New(p *prefs.Prefs) *Session {
	if p == nil {
		p = prefs.Default()
	}
	return &Session{
		id:      uuid.NewString(),
		prefs:   p,
		markers: make(map[int64][]Marker),
		nextNum: 1,
	}
}

// ID returns the unique session identifier.
func (s *Session) ID() string { return s.id }

// Preferences returns the display preferences.
func (s *Session) Preferences() *prefs.Prefs { return s.prefs }

// Markers returns the marker collection for one acquisition timestamp.
// The returned slice is the live collection; callers must not retain it
// across mutations. Use MarkerRef for a durable reference.
func (s *Session) Markers(timestamp int64) []Marker {
	return s.markers[timestamp]
}

// Marker resolves a reference. ok is false if the reference is stale.
func (s *Session) Marker(ref MarkerRef) (Marker, bool) {
	ms := s.markers[ref.Timestamp]
	if ref.Index < 0 || ref.Index >= len(ms) {
		return Marker{}, false
	}
	return ms[ref.Index], true
}

// AddMarker appends a marker and returns its reference. An empty name is
// replaced with the next automatic name (M1, M2, ...).
func (s *Session) AddMarker(timestamp int64, m Marker) MarkerRef {
	if m.Name == "" {
		m.Name = fmt.Sprintf("M%d", s.nextNum)
	}
	s.nextNum++
	s.markers[timestamp] = append(s.markers[timestamp], m)
	return MarkerRef{Timestamp: timestamp, Index: len(s.markers[timestamp]) - 1}
}

// SetMarkerOffset moves a marker. Stale references are ignored; a drag
// can outlive a marker deleted through the remote API.
func (s *Session) SetMarkerOffset(ref MarkerRef, offset int64) {
	ms := s.markers[ref.Timestamp]
	if ref.Index < 0 || ref.Index >= len(ms) {
		return
	}
	ms[ref.Index].Offset = offset
}

// RemoveMarker deletes the referenced marker. Later indices shift down,
// invalidating any outstanding references into the same collection.
func (s *Session) RemoveMarker(ref MarkerRef) {
	ms := s.markers[ref.Timestamp]
	if ref.Index < 0 || ref.Index >= len(ms) {
		return
	}
	s.markers[ref.Timestamp] = append(ms[:ref.Index], ms[ref.Index+1:]...)
}

// Timestamps returns the acquisition timestamps that have markers.
func (s *Session) Timestamps() []int64 {
	out := make([]int64, 0, len(s.markers))
	for ts := range s.markers {
		out = append(out, ts)
	}
	return out
}

// LoadMarkers replaces the session's markers from a store.
func (s *Session) LoadMarkers(ctx context.Context, store Store, captureID string) error {
	loaded, err := store.Load(ctx, captureID)
	if err != nil {
		return err
	}
	s.markers = loaded
	if s.markers == nil {
		s.markers = make(map[int64][]Marker)
	}
	return nil
}

// SaveMarkers writes the session's markers to a store.
func (s *Session) SaveMarkers(ctx context.Context, store Store, captureID string) error {
	return store.Save(ctx, captureID, s.markers)
}
