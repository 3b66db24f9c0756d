package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/gpu"
	"github.com/akowalsk/scopeview/pkg/session"
	"github.com/akowalsk/scopeview/pkg/unit"
	"github.com/akowalsk/scopeview/pkg/view"
	"github.com/akowalsk/scopeview/pkg/waveform"
)

// =============================================================================
// Test fakes
// =============================================================================

type fakeFont struct {
	size float64
}

func (f fakeFont) Size() float64 { return f.size }

func (f fakeFont) Measure(s string) (float64, float64) {
	return float64(len(s)) * f.size * 0.5, f.size
}

type fakeList struct {
	lines int
	rects int
	texts []string
}

func (l *fakeList) Line(a, b draw.Point, c draw.Color, w float64) { l.lines++ }

func (l *fakeList) RectFilled(min, max draw.Point, c draw.Color, r float64) { l.rects++ }

func (l *fakeList) Text(f draw.Font, pos draw.Point, c draw.Color, s string) {
	l.texts = append(l.texts, s)
}

type fakeInput struct {
	pos      draw.Point
	delta    draw.Point
	pressed  map[draw.Button]bool
	released map[draw.Button]bool
	wheel    float64
	shape    draw.Cursor
	shapeSet bool
}

func (in *fakeInput) MousePos() draw.Point        { return in.pos }
func (in *fakeInput) MouseDelta() draw.Point      { return in.delta }
func (in *fakeInput) Pressed(b draw.Button) bool  { return in.pressed[b] }
func (in *fakeInput) Released(b draw.Button) bool { return in.released[b] }
func (in *fakeInput) Wheel() float64              { return in.wheel }
func (in *fakeInput) SetCursor(c draw.Cursor)     { in.shape = c; in.shapeSet = true }

func press(b draw.Button) map[draw.Button]bool   { return map[draw.Button]bool{b: true} }
func release(b draw.Button) map[draw.Button]bool { return map[draw.Button]bool{b: true} }

type fakeArea struct {
	streams    []waveform.Stream
	timestamp  int64
	closing    bool
	dragStream *waveform.Stream

	renders    int
	lastRegion draw.Rect
	toneMaps   int
	rasters    int
	clears     int
	cleared    []string
	released   bool
}

func (a *fakeArea) Render(index, total int, region draw.Rect) bool {
	a.renders++
	a.lastRegion = region
	return !a.closing
}

func (a *fakeArea) ToneMap(cb gpu.CommandBuffer) { a.toneMaps++ }

func (a *fakeArea) RenderWaveforms(cb gpu.CommandBuffer, clearPersistence bool) {
	a.rasters++
	if clearPersistence {
		a.clears++
	}
}

func (a *fakeArea) StreamCount() int { return len(a.streams) }

func (a *fakeArea) Stream(i int) waveform.Stream { return a.streams[i] }

func (a *fakeArea) ChannelBeingDragged() (waveform.Stream, bool) {
	if a.dragStream != nil {
		return *a.dragStream, true
	}
	return waveform.Stream{}, false
}

func (a *fakeArea) ClearPersistenceOfChannel(name string) {
	a.cleared = append(a.cleared, name)
}

func (a *fakeArea) WaveformTimestamp() int64 { return a.timestamp }

func (a *fakeArea) Release() { a.released = true }

// fakeDevice counts idle barriers; Begin and Submit run synchronously.
type fakeDevice struct {
	gpu.NullDevice
	waits int
}

func (d *fakeDevice) WaitIdle() { d.waits++ }

func newTestGroup() (*Group, *fakeDevice) {
	dev := &fakeDevice{}
	return New("test", session.New(nil), dev), dev
}

// renderFrame runs one frame against a 1000x500 window at the origin.
func renderFrame(t *testing.T, g *Group, in *fakeInput) (*fakeList, bool) {
	t.Helper()
	list := &fakeList{}
	open := g.Render(Frame{
		List:    list,
		Input:   in,
		Font:    fakeFont{size: 12},
		Region:  draw.Rect{W: 1000, H: 500},
		Hovered: true,
	})
	return list, open
}

// milliTransform maps one pixel to 1000 X axis units starting at zero.
func milliTransform() view.Transform {
	return view.Transform{OffsetUnits: 0, PixelsPerUnit: 0.001}
}

// =============================================================================
// Frame sequencing and area lifecycle
// =============================================================================

func TestAreaCloseIsDeferredOneFrame(t *testing.T) {
	g, dev := newTestGroup()
	a0 := &fakeArea{closing: true}
	a1 := &fakeArea{}
	g.AddArea(a0)
	g.AddArea(a1)

	// The closing area still renders on the frame it asks to close.
	_, open := renderFrame(t, g, &fakeInput{})
	assert.True(t, open)
	assert.Equal(t, 1, a0.renders)
	assert.Equal(t, 2, g.AreaCount())
	assert.Equal(t, 0, dev.waits)
	assert.False(t, a0.released)

	// Next frame it is erased behind an idle barrier, before anything
	// renders, and is never drawn again.
	_, open = renderFrame(t, g, &fakeInput{})
	assert.True(t, open)
	assert.Equal(t, 1, a0.renders)
	assert.True(t, a0.released)
	assert.False(t, a1.released)
	assert.Equal(t, 1, g.AreaCount())
	assert.Equal(t, 1, dev.waits)
}

func TestGroupClosesWhenLastAreaGone(t *testing.T) {
	g, _ := newTestGroup()
	a := &fakeArea{closing: true}
	g.AddArea(a)

	_, open := renderFrame(t, g, &fakeInput{})
	assert.True(t, open, "group stays open while the close is pending")

	_, open = renderFrame(t, g, &fakeInput{})
	assert.False(t, open)
	assert.Equal(t, 0, g.AreaCount())
}

func TestIdleBarrierSkippedWithNothingToReap(t *testing.T) {
	g, dev := newTestGroup()
	g.AddArea(&fakeArea{})

	for i := 0; i < 3; i++ {
		renderFrame(t, g, &fakeInput{})
	}
	assert.Equal(t, 0, dev.waits)
}

func TestAreasStackBelowTimeline(t *testing.T) {
	g, _ := newTestGroup()
	a0 := &fakeArea{}
	a1 := &fakeArea{}
	g.AddArea(a0)
	g.AddArea(a1)

	renderFrame(t, g, &fakeInput{})

	// timelineHeight = 2.5 * font size = 30; remaining 470 split evenly.
	assert.InDelta(t, 30, a0.lastRegion.Y, 0.001)
	assert.InDelta(t, 235, a0.lastRegion.H, 0.001)
	assert.InDelta(t, 265, a1.lastRegion.Y, 0.001)
	assert.InDelta(t, 235, a1.lastRegion.H, 0.001)
}

// =============================================================================
// GPU fan-out and persistence
// =============================================================================

func TestToneMapFansOutToAllAreas(t *testing.T) {
	g, dev := newTestGroup()
	a0 := &fakeArea{}
	a1 := &fakeArea{}
	g.AddArea(a0)
	g.AddArea(a1)

	cb := dev.Begin()
	g.ToneMapAll(cb)
	assert.Equal(t, 1, a0.toneMaps)
	assert.Equal(t, 1, a1.toneMaps)
}

func TestPersistenceFlagConsumedOnce(t *testing.T) {
	g, dev := newTestGroup()
	a := &fakeArea{}
	g.AddArea(a)

	g.ClearPersistence()
	g.RenderWaveformTextures(dev.Begin(), false)
	assert.Equal(t, 1, a.clears, "first render after the request clears")

	g.RenderWaveformTextures(dev.Begin(), false)
	assert.Equal(t, 1, a.clears, "flag was consumed by the exchange")
	assert.Equal(t, 2, a.rasters)
}

func TestClearAllOverridesFlag(t *testing.T) {
	g, dev := newTestGroup()
	a := &fakeArea{}
	g.AddArea(a)

	g.RenderWaveformTextures(dev.Begin(), true)
	assert.Equal(t, 1, a.clears)
}

func TestClearPersistenceOfChannelFansOut(t *testing.T) {
	g, _ := newTestGroup()
	a0 := &fakeArea{}
	a1 := &fakeArea{}
	g.AddArea(a0)
	g.AddArea(a1)

	g.ClearPersistenceOfChannel("ch1")
	assert.Equal(t, []string{"ch1"}, a0.cleared)
	assert.Equal(t, []string{"ch1"}, a1.cleared)
}

// =============================================================================
// Viewport operations
// =============================================================================

func TestNavigateToTimestampCenters(t *testing.T) {
	g, _ := newTestGroup()
	g.SetTransform(milliTransform())
	renderFrame(t, g, &fakeInput{}) // establish plot width

	g.NavigateToTimestamp(5_000_000)

	// Half of 1000 px at 0.001 px/unit is 500000 units.
	assert.Equal(t, int64(4_500_000), g.Transform().OffsetUnits)
}

func TestNavigateIgnoredOffTimeDomain(t *testing.T) {
	g, _ := newTestGroup()
	g.SetXUnit(unit.Hertz)
	g.SetTransform(milliTransform())
	renderFrame(t, g, &fakeInput{})

	g.NavigateToTimestamp(5_000_000)
	assert.Equal(t, int64(0), g.Transform().OffsetUnits)
}

func TestSetTransformRejectsNonPositiveScale(t *testing.T) {
	g, _ := newTestGroup()
	before := g.Transform()
	g.SetTransform(view.Transform{PixelsPerUnit: 0})
	g.SetTransform(view.Transform{PixelsPerUnit: -1})
	assert.Equal(t, before, g.Transform())
}

func TestChannelBeingDragged(t *testing.T) {
	g, _ := newTestGroup()
	s := waveform.Stream{Name: "ch0"}
	g.AddArea(&fakeArea{})
	g.AddArea(&fakeArea{dragStream: &s})

	require.True(t, g.IsChannelBeingDragged())
	got, ok := g.ChannelBeingDragged()
	require.True(t, ok)
	assert.Equal(t, "ch0", got.Name)
}
