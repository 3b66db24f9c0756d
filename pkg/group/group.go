// Package group implements the waveform group: a set of channel-display
// areas sharing one time-axis viewport, plus the interactive machinery
// layered on top of it — the timeline strip, measurement cursors,
// session markers, and the per-frame render coordination.
//
// # Frame sequence
//
// Each frame, Render runs a fixed sequence:
//
//  1. Areas marked for close during the previous frame are erased, after
//     a device-wide GPU idle barrier guarantees no in-flight command
//     buffer still references their resources.
//  2. The timeline strip renders and handles pan/zoom/autoscale input.
//  3. Each live area renders in order. An area asking to close is only
//     marked; it stays renderable for the rest of this frame.
//  4. Cursor and marker overlays draw over all areas.
//
// Tone-mapping is a separate fan-out (ToneMapAll) dispatched by the host
// once per frame before the composite draw, gated on new acquisition
// data.
//
// # Concurrency
//
// Everything here runs on the single render goroutine. The one exception
// is the persistence-clear flag, which any goroutine may set and the
// renderer consumes at most once per frame via an atomic exchange.
package group

import (
	"sync/atomic"
	"time"

	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/gpu"
	"github.com/akowalsk/scopeview/pkg/observability"
	"github.com/akowalsk/scopeview/pkg/session"
	"github.com/akowalsk/scopeview/pkg/unit"
	"github.com/akowalsk/scopeview/pkg/view"
	"github.com/akowalsk/scopeview/pkg/waveform"
)

// CursorMode selects how many measurement cursors are active.
type CursorMode int

const (
	// CursorNone disables cursors; they keep their positions but are
	// neither drawn nor interactive.
	CursorNone CursorMode = iota

	// CursorSingle enables cursor 0 only.
	CursorSingle

	// CursorDual enables both cursors with the ordering invariant
	// cursor0 <= cursor1.
	CursorDual
)

// Frame carries the per-frame capabilities and layout the group renders
// against. The host constructs one each frame.
type Frame struct {
	List   draw.List
	Input  draw.Input
	Font   draw.Font
	Region draw.Rect

	// Hovered reports whether the pointer is over the group's window;
	// input is only processed when it is.
	Hovered bool
}

// Group is one waveform group. Not safe for concurrent use; all methods
// except ClearPersistence must be called from the render goroutine.
type Group struct {
	title   string
	session *session.Session
	device  gpu.Device

	xform view.Transform
	xUnit unit.Unit

	areas        []Area
	pendingClose []int

	drag       dragOwner
	cursorMode CursorMode
	cursorPos  [2]int64

	clearPersistence atomic.Bool

	// layout cached from the most recent frame
	plotX          float64
	plotWidth      float64
	timelineHeight float64
}

// New creates a group with the default transform and a femtosecond
// time axis.
func New(title string, sess *session.Session, device gpu.Device) *Group {
	return &Group{
		title:   title,
		session: sess,
		device:  device,
		xform:   view.NewTransform(),
		xUnit:   unit.Femtoseconds,
	}
}

// Title returns the group's display title.
func (g *Group) Title() string { return g.title }

// Transform returns the current viewport transform.
func (g *Group) Transform() view.Transform { return g.xform }

// SetTransform replaces the viewport transform, e.g. when restoring a
// saved session. Transforms with a non-positive scale are ignored.
func (g *Group) SetTransform(t view.Transform) {
	if t.PixelsPerUnit <= 0 {
		return
	}
	g.xform = t
	g.ClearPersistence()
}

// XUnit returns the X axis unit.
func (g *Group) XUnit() unit.Unit { return g.xUnit }

// SetXUnit changes the X axis unit, e.g. to Hertz for spectrum groups.
func (g *Group) SetXUnit(u unit.Unit) { g.xUnit = u }

// =============================================================================
// Area management
// =============================================================================

// AddArea appends an area to the group.
func (g *Group) AddArea(a Area) {
	g.areas = append(g.areas, a)
}

// AreaCount returns the number of live areas.
func (g *Group) AreaCount() int { return len(g.areas) }

// IsChannelBeingDragged reports whether any area has a channel drag in
// progress.
func (g *Group) IsChannelBeingDragged() bool {
	for _, a := range g.areas {
		if _, ok := a.ChannelBeingDragged(); ok {
			return true
		}
	}
	return false
}

// ChannelBeingDragged returns the stream being dragged from any area.
func (g *Group) ChannelBeingDragged() (waveform.Stream, bool) {
	for _, a := range g.areas {
		if s, ok := a.ChannelBeingDragged(); ok {
			return s, true
		}
	}
	return waveform.Stream{}, false
}

// =============================================================================
// GPU passes
// =============================================================================

// ToneMapAll records the tone-mapping pass for every area into cb.
// The host dispatches this once per frame when new acquisition data is
// ready to render.
func (g *Group) ToneMapAll(cb gpu.CommandBuffer) {
	observability.Frame().OnToneMapDispatch(len(g.areas))
	for _, a := range g.areas {
		a.ToneMap(cb)
	}
}

// RenderWaveformTextures records waveform rasterization for every area.
// The group's persistence-clear flag is consumed here, at most once per
// frame; clearAll forces a clear regardless of the flag.
func (g *Group) RenderWaveformTextures(cb gpu.CommandBuffer, clearAll bool) {
	clearThisGroup := g.clearPersistence.Swap(false)
	if clearThisGroup {
		observability.Frame().OnPersistenceCleared()
	}
	for _, a := range g.areas {
		a.RenderWaveforms(cb, clearThisGroup || clearAll)
	}
}

// ClearPersistence schedules a persistence clear for the next waveform
// render. Safe to call from any goroutine.
func (g *Group) ClearPersistence() {
	g.clearPersistence.Store(true)
}

// ClearPersistenceOfChannel discards persistence for one channel in
// every area, typically after the channel is reconfigured.
func (g *Group) ClearPersistenceOfChannel(name string) {
	for _, a := range g.areas {
		a.ClearPersistenceOfChannel(name)
	}
}

// =============================================================================
// Viewport control
// =============================================================================

// ZoomInAt zooms in by factor, keeping target at the same pixel.
func (g *Group) ZoomInAt(target int64, factor float64) {
	g.xform.ZoomIn(target, factor)
	g.ClearPersistence()
}

// ZoomOutAt zooms out by factor, keeping target at the same pixel.
func (g *Group) ZoomOutAt(target int64, factor float64) {
	g.xform.ZoomOut(target, factor)
	g.ClearPersistence()
}

// NavigateToTimestamp scrolls the group so the given time-domain
// position is centered. Groups on non-time axes do not scroll.
func (g *Group) NavigateToTimestamp(t int64) {
	if g.xUnit != unit.Femtoseconds {
		return
	}
	g.xform.OffsetUnits = t - g.xform.DeltaUnits(g.plotWidth/2)
	g.ClearPersistence()
}

// =============================================================================
// Cursors
// =============================================================================

// CursorMode returns the active cursor mode.
func (g *Group) CursorMode() CursorMode { return g.cursorMode }

// SetCursorMode switches cursor modes. Dropping out of a mode releases
// any cursor drag so ownership never points at an inactive element.
func (g *Group) SetCursorMode(m CursorMode) {
	g.cursorMode = m
	if m == CursorNone && (g.drag.state == DragCursor0 || g.drag.state == DragCursor1) {
		g.drag.end()
	}
	if m != CursorDual && g.drag.state == DragCursor1 {
		g.drag.end()
	}
	g.enforceCursorOrder()
}

// CursorPosition returns the position of cursor 0 or 1 in X axis units.
func (g *Group) CursorPosition(i int) int64 { return g.cursorPos[i] }

// SetCursorPosition moves a cursor, enforcing the dual-mode ordering
// invariant. Any active cursor drag is remapped if the cursors swap.
func (g *Group) SetCursorPosition(i int, t int64) {
	g.cursorPos[i] = t
	g.enforceCursorOrder()
}

// CursorDelta returns cursor1 - cursor0 in X axis units.
func (g *Group) CursorDelta() int64 {
	return g.cursorPos[1] - g.cursorPos[0]
}

// CursorFrequencyDual returns the reciprocal of the cursor delta in
// hertz. Only meaningful for time-domain axes with a nonzero delta.
func (g *Group) CursorFrequencyDual() (float64, bool) {
	delta := g.CursorDelta()
	if g.xUnit != unit.Femtoseconds || delta == 0 {
		return 0, false
	}
	return unit.FsPerSecond / float64(delta), true
}

// DragState returns the element currently owning pointer input.
func (g *Group) DragState() DragState { return g.drag.state }

// enforceCursorOrder keeps cursor0 left of cursor1 in dual mode,
// swapping both positions and any drag ownership when violated.
func (g *Group) enforceCursorOrder() {
	if g.cursorMode != CursorDual {
		return
	}
	if g.cursorPos[0] > g.cursorPos[1] {
		g.cursorPos[0], g.cursorPos[1] = g.cursorPos[1], g.cursorPos[0]
		g.drag.swapCursors()
	}
}

// =============================================================================
// Pixel mapping
// =============================================================================

// toWindowPixel converts an X axis position to window-space pixels using
// the most recent frame's layout.
func (g *Group) toWindowPixel(t int64) float64 {
	return g.plotX + g.xform.ToPixel(t)
}

// fromWindowPixel converts a window-space pixel to an X axis position.
func (g *Group) fromWindowPixel(px float64) int64 {
	return g.xform.ToUnits(px - g.plotX)
}

// =============================================================================
// Render coordination
// =============================================================================

// Render runs one frame of the group. Returns false once the group has
// no areas left and should be closed by the host.
func (g *Group) Render(f Frame) bool {
	frameStart := time.Now()
	observability.Frame().OnFrameStart(len(g.areas))

	g.timelineHeight = 2.5 * f.Font.Size()
	g.plotX = f.Region.X
	g.plotWidth = f.Region.W

	// Erase areas marked for close during the previous frame. The idle
	// barrier is the synchronization point that makes freeing their GPU
	// resources safe; it is device-wide and accepted as a rare-path cost.
	if len(g.pendingClose) > 0 {
		waitStart := time.Now()
		g.device.WaitIdle()
		reaped := len(g.pendingClose)
		for i := reaped - 1; i >= 0; i-- {
			idx := g.pendingClose[i]
			g.areas[idx].Release()
			g.areas = append(g.areas[:idx], g.areas[idx+1:]...)
		}
		g.pendingClose = g.pendingClose[:0]
		observability.Frame().OnGPUWaitComplete(reaped, time.Since(waitStart))
	}

	// Input before drawing, highest priority first: markers win
	// ambiguous hits over cursors, a cursor grab wins over a timeline
	// pan, and a bare click places cursors only when nothing claimed it.
	g.handleMarkerInput(f)
	g.handleCursorGrab(f)
	g.handleTimelineInput(f)
	g.handleCursorPlacement(f)

	g.drawTimeline(f)

	// Stack the live areas below the timeline. Areas that ask to close
	// are marked for the next frame's reap, not removed now, so this
	// frame's rendering stays consistent.
	top := f.Region.Y + g.timelineHeight
	space := f.Region.H - g.timelineHeight
	total := len(g.areas)
	for i, a := range g.areas {
		h := space / float64(total)
		region := draw.Rect{X: f.Region.X, Y: top + float64(i)*h, W: f.Region.W, H: h}
		if !a.Render(i, total, region) {
			g.pendingClose = append(g.pendingClose, i)
		}
	}

	open := len(g.areas) > 0

	// Overlays draw over every area but beneath popup readout windows.
	// Cursors draw first so marker labels stay visible on top of the
	// dual-cursor fill.
	g.drawCursors(f)
	g.drawMarkers(f)

	observability.Frame().OnFrameComplete(len(g.areas), time.Since(frameStart))
	return open
}
