package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndResolveMarkers(t *testing.T) {
	s := New(nil)
	const ts = int64(1700000000)

	ref1 := s.AddMarker(ts, Marker{Offset: 500})
	ref2 := s.AddMarker(ts, Marker{Name: "trigger", Offset: 1500})

	assert.Equal(t, 0, ref1.Index)
	assert.Equal(t, 1, ref2.Index)
	assert.Len(t, s.Markers(ts), 2)

	m, ok := s.Marker(ref1)
	require.True(t, ok)
	assert.Equal(t, "M1", m.Name) // auto-named
	assert.Equal(t, int64(500), m.Offset)

	m, ok = s.Marker(ref2)
	require.True(t, ok)
	assert.Equal(t, "trigger", m.Name)
}

func TestSetMarkerOffsetThroughRef(t *testing.T) {
	s := New(nil)
	ref := s.AddMarker(42, Marker{Name: "a", Offset: 100})

	s.SetMarkerOffset(ref, 999)

	m, ok := s.Marker(ref)
	require.True(t, ok)
	assert.Equal(t, int64(999), m.Offset)

	// Stale references are ignored, not a panic.
	s.SetMarkerOffset(MarkerRef{Timestamp: 42, Index: 7}, 1)
	s.SetMarkerOffset(MarkerRef{Timestamp: 99, Index: 0}, 1)
}

func TestRemoveMarker(t *testing.T) {
	s := New(nil)
	ref := s.AddMarker(1, Marker{Name: "a", Offset: 1})
	s.AddMarker(1, Marker{Name: "b", Offset: 2})

	s.RemoveMarker(ref)

	ms := s.Markers(1)
	require.Len(t, ms, 1)
	assert.Equal(t, "b", ms[0].Name)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	in := map[int64][]Marker{
		100: {{Name: "M1", Offset: 500}},
		200: {{Name: "M2", Offset: 1500}, {Name: "M3", Offset: 2500}},
	}
	require.NoError(t, store.Save(ctx, "cap1", in))

	out, err := store.Load(ctx, "cap1")
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// Unknown captures load empty, not error.
	out, err = store.Load(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	in := map[int64][]Marker{1: {{Name: "M1", Offset: 10}}}
	require.NoError(t, store.Save(ctx, "cap", in))

	// Mutating the caller's map must not affect the stored copy.
	in[1][0].Offset = 99

	out, err := store.Load(ctx, "cap")
	require.NoError(t, err)
	assert.Equal(t, int64(10), out[1][0].Offset)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	in := map[int64][]Marker{
		1700000000: {{Name: "edge", Offset: 12345}},
	}
	require.NoError(t, store.Save(ctx, "cap1", in))

	out, err := store.Load(ctx, "cap1")
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, err = store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New(nil)
	s.AddMarker(100, Marker{Name: "a", Offset: 1})
	require.NoError(t, s.SaveMarkers(ctx, store, "cap"))

	s2 := New(nil)
	require.NoError(t, s2.LoadMarkers(ctx, store, "cap"))
	require.Len(t, s2.Markers(100), 1)
	assert.Equal(t, "a", s2.Markers(100)[0].Name)
}

func TestSessionIDsUnique(t *testing.T) {
	assert.NotEqual(t, New(nil).ID(), New(nil).ID())
}
