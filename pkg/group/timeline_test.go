package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/unit"
	"github.com/akowalsk/scopeview/pkg/view"
	"github.com/akowalsk/scopeview/pkg/waveform"
)

func TestTimelinePanDrag(t *testing.T) {
	g, dev := newTestGroup()
	g.SetTransform(milliTransform())
	g.RenderWaveformTextures(dev.Begin(), false) // drain the SetTransform clear

	// Press inside the strip (timeline height is 30 at font size 12).
	in := &fakeInput{pos: draw.Point{X: 500, Y: 10}, pressed: press(draw.MouseLeft)}
	renderFrame(t, g, in)
	require.Equal(t, DragTimeline, g.DragState())
	assert.Equal(t, int64(0), g.Transform().OffsetUnits)

	// Dragging right scrolls content right: the offset decreases by the
	// pointer motion converted to axis units.
	in = &fakeInput{pos: draw.Point{X: 550, Y: 10}, delta: draw.Point{X: 50}}
	renderFrame(t, g, in)
	assert.Equal(t, int64(-50_000), g.Transform().OffsetUnits)

	// Panning invalidates accumulated persistence.
	a := &fakeArea{}
	g.AddArea(a)
	g.RenderWaveformTextures(dev.Begin(), false)
	assert.Equal(t, 1, a.clears)

	// The drag keeps tracking outside the strip until release.
	in = &fakeInput{pos: draw.Point{X: 550, Y: 400}, delta: draw.Point{X: 0}}
	renderFrame(t, g, in)
	require.Equal(t, DragTimeline, g.DragState())

	in = &fakeInput{pos: draw.Point{X: 550, Y: 400}, released: release(draw.MouseLeft)}
	renderFrame(t, g, in)
	assert.Equal(t, DragNone, g.DragState())
}

func TestWheelZoomAnchorsPointer(t *testing.T) {
	g, _ := newTestGroup()
	g.SetTransform(milliTransform())

	// One wheel step in over x=250. The position under the pointer must
	// stay at the same pixel.
	target := g.Transform().ToUnits(250)
	in := &fakeInput{pos: draw.Point{X: 250, Y: 10}, wheel: 1}
	renderFrame(t, g, in)

	after := g.Transform()
	assert.InDelta(t, 0.0015, after.PixelsPerUnit, 1e-9)
	assert.InDelta(t, 250, after.ToPixel(target), 1.0)

	// One step back out restores the original scale.
	in = &fakeInput{pos: draw.Point{X: 250, Y: 10}, wheel: -1}
	renderFrame(t, g, in)
	assert.InDelta(t, 0.001, g.Transform().PixelsPerUnit, 1e-9)
}

func TestWheelIgnoredOutsideStrip(t *testing.T) {
	g, _ := newTestGroup()
	g.SetTransform(milliTransform())

	in := &fakeInput{pos: draw.Point{X: 250, Y: 300}, wheel: 1}
	renderFrame(t, g, in)
	assert.InDelta(t, 0.001, g.Transform().PixelsPerUnit, 1e-9)
}

func TestMiddleClickAutoscale(t *testing.T) {
	g, _ := newTestGroup()

	// 2000 samples of 500 fs span exactly 1e6 fs starting at zero.
	s := waveform.Stream{
		Name:  "ch0",
		YUnit: unit.Volts,
		Data:  waveform.NewUniform(500, make([]float64, 2000)),
	}
	g.AddArea(&fakeArea{streams: []waveform.Stream{s}})

	in := &fakeInput{pos: draw.Point{X: 500, Y: 10}, pressed: press(draw.MouseMiddle)}
	renderFrame(t, g, in)

	xf := g.Transform()
	assert.Equal(t, int64(0), xf.OffsetUnits)
	assert.InDelta(t, 0.001, xf.PixelsPerUnit, 1e-9)
}

func TestAutoscaleSkipsEmptyStreams(t *testing.T) {
	g, _ := newTestGroup()
	empty := waveform.Stream{Name: "empty"}
	live := waveform.Stream{
		Name: "ch0",
		Data: waveform.NewUniform(500, make([]float64, 2000)),
	}
	g.AddArea(&fakeArea{streams: []waveform.Stream{empty, live}})

	in := &fakeInput{pos: draw.Point{X: 500, Y: 10}, pressed: press(draw.MouseMiddle)}
	renderFrame(t, g, in)

	assert.InDelta(t, 0.001, g.Transform().PixelsPerUnit, 1e-9)
}

func TestAutoscaleNoOpWithoutData(t *testing.T) {
	g, _ := newTestGroup()
	g.SetTransform(milliTransform())
	g.AddArea(&fakeArea{streams: []waveform.Stream{{Name: "empty"}}})

	in := &fakeInput{pos: draw.Point{X: 500, Y: 10}, pressed: press(draw.MouseMiddle)}
	renderFrame(t, g, in)

	assert.Equal(t, milliTransform(), g.Transform())
}

func TestTimelineClickBeatsCursorPlacement(t *testing.T) {
	g, _ := newTestGroup()
	g.SetTransform(milliTransform())
	g.SetCursorMode(CursorDual)

	// A press inside the strip pans; it does not place cursors.
	in := &fakeInput{pos: draw.Point{X: 500, Y: 10}, pressed: press(draw.MouseLeft)}
	renderFrame(t, g, in)

	assert.Equal(t, DragTimeline, g.DragState())
	assert.Equal(t, int64(0), g.CursorPosition(0))
	assert.Equal(t, int64(0), g.CursorPosition(1))
}

func TestTimelineDrawsTickLabels(t *testing.T) {
	g, _ := newTestGroup()
	g.SetTransform(milliTransform())

	list, _ := renderFrame(t, g, &fakeInput{})

	// 1e6 fs across 1000 px with 75 px label spacing graduates every
	// 250000 fs, so the 250 ps and 500 ps labels must both appear.
	assert.Contains(t, list.texts, "250 ps")
	assert.Contains(t, list.texts, "500 ps")
	assert.Greater(t, list.lines, 2, "axis plus graduation and fine ticks")
}

func TestDegenerateZoomSkipsTicks(t *testing.T) {
	g, _ := newTestGroup()

	// At extreme magnification the graduation spacing rounds to zero;
	// the strip draws its border and nothing else rather than looping.
	g.SetTransform(view.Transform{PixelsPerUnit: 1e9})

	list, _ := renderFrame(t, g, &fakeInput{})
	assert.Empty(t, list.texts)
	assert.Equal(t, 1, list.lines, "axis border only")
}
