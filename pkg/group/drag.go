package group

import "github.com/akowalsk/scopeview/pkg/session"

// DragState identifies which interactive element owns pointer-drag input.
// Exactly one element can own the pointer at a time for a given group;
// a press while another state is active is ignored until release.
type DragState int

const (
	// DragNone means no element owns the pointer.
	DragNone DragState = iota

	// DragTimeline pans the viewport by incremental pointer motion.
	DragTimeline

	// DragCursor0 moves the first measurement cursor.
	DragCursor0

	// DragCursor1 moves the second measurement cursor.
	DragCursor1

	// DragMarker moves a session marker; the owned marker is identified
	// by a stable reference, not a pointer into the session's slice.
	DragMarker
)

// String returns the state name for logs.
func (s DragState) String() string {
	switch s {
	case DragNone:
		return "none"
	case DragTimeline:
		return "timeline"
	case DragCursor0:
		return "cursor0"
	case DragCursor1:
		return "cursor1"
	case DragMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// dragOwner tracks the active drag. Transitions happen only on explicit
// press (begin) and release (end) edges, never silently.
type dragOwner struct {
	state  DragState
	marker session.MarkerRef // valid only while state == DragMarker
}

// begin claims the pointer for a state. Claims while another element
// holds the pointer are ignored.
func (d *dragOwner) begin(s DragState) bool {
	if d.state != DragNone {
		return false
	}
	d.state = s
	return true
}

// beginMarker claims the pointer for a marker drag.
func (d *dragOwner) beginMarker(ref session.MarkerRef) bool {
	if d.state != DragNone {
		return false
	}
	d.state = DragMarker
	d.marker = ref
	return true
}

// end releases the pointer back to the idle state.
func (d *dragOwner) end() {
	d.state = DragNone
	d.marker = session.MarkerRef{}
}

// swapCursors remaps cursor drag ownership after the dual-cursor
// ordering invariant swapped the cursor positions.
func (d *dragOwner) swapCursors() {
	switch d.state {
	case DragCursor0:
		d.state = DragCursor1
	case DragCursor1:
		d.state = DragCursor0
	}
}
