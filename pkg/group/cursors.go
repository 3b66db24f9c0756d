package group

import (
	"fmt"
	"math"

	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/unit"
)

// labelBg is the background behind cursor and marker labels, matching
// the popup background of the rest of the UI.
var labelBg = draw.Color{R: 20, G: 20, B: 22, A: 240}

const (
	labelPadding  = 2.0
	labelRounding = 2.0
)

// hitRadius is the half-width of the grab zone around a cursor or
// marker line, scaled from the font so it tracks display density.
func hitRadius(f Frame) float64 {
	return 0.25 * f.Font.Size()
}

// =============================================================================
// Input
// =============================================================================

// handleCursorGrab hit-tests the active cursors and tracks an in-flight
// cursor drag. Grabs require hovering the group; tracking does not, so a
// drag can leave the window and keep following the pointer.
func (g *Group) handleCursorGrab(f Frame) {
	if g.cursorMode == CursorNone {
		return
	}
	g.doCursor(f, 0, DragCursor0)
	if g.cursorMode == CursorDual {
		g.doCursor(f, 1, DragCursor1)
	}
}

func (g *Group) doCursor(f Frame, i int, state DragState) {
	mouse := f.Input.MousePos()
	xpos := math.Round(g.toWindowPixel(g.cursorPos[i]))

	if f.Hovered && math.Abs(mouse.X-xpos) < hitRadius(f) {
		f.Input.SetCursor(draw.CursorResizeEW)
		if f.Input.Pressed(draw.MouseLeft) {
			g.drag.begin(state)
		}
	}

	if g.drag.state == state {
		if f.Input.Released(draw.MouseLeft) {
			g.drag.end()
		}
		g.SetCursorPosition(i, g.fromWindowPixel(mouse.X))
	}
}

// handleCursorPlacement places cursors on a bare click: cursor 0 moves
// to the click position and the drag continues on cursor 1 in dual mode
// (so one press-drag-release sweeps out a measurement interval), or on
// cursor 0 otherwise. Runs last in the input sequence; any element that
// claimed the press already suppresses placement via the drag owner.
func (g *Group) handleCursorPlacement(f Frame) {
	if g.cursorMode == CursorNone {
		return
	}
	mouse := f.Input.MousePos()
	if !f.Hovered || !f.Region.Contains(mouse) {
		return
	}
	if g.drag.state != DragNone || !f.Input.Pressed(draw.MouseLeft) {
		return
	}

	t := g.fromWindowPixel(mouse.X)
	g.cursorPos[0] = t
	if g.cursorMode == CursorDual {
		g.cursorPos[1] = t
		g.drag.begin(DragCursor1)
	} else {
		g.drag.begin(DragCursor0)
	}
	g.enforceCursorOrder()
}

// =============================================================================
// Drawing
// =============================================================================

// drawCursors renders the cursor lines, the fill between them in dual
// mode, and the position labels anchored at the bottom of the timeline.
func (g *Group) drawCursors(f Frame) {
	if g.cursorMode == CursorNone {
		return
	}

	p := g.session.Preferences()
	c0 := p.CursorColor(0)
	c1 := p.CursorColor(1)

	top := f.Region.Y
	bottom := f.Region.Y + f.Region.H
	xpos0 := math.Round(g.toWindowPixel(g.cursorPos[0]))
	xpos1 := math.Round(g.toWindowPixel(g.cursorPos[1]))

	if g.cursorMode == CursorDual {
		f.List.RectFilled(
			draw.Point{X: xpos0, Y: top},
			draw.Point{X: xpos1, Y: bottom},
			p.CursorFillColor(), 0)
	}

	f.List.Line(draw.Point{X: xpos0, Y: top}, draw.Point{X: xpos0, Y: bottom}, c0, 1)
	g.drawAxisLabel(f, xpos0, "X1: "+g.xUnit.PrettyPrint(float64(g.cursorPos[0])), c0, false)

	if g.cursorMode == CursorDual {
		f.List.Line(draw.Point{X: xpos1, Y: top}, draw.Point{X: xpos1, Y: bottom}, c1, 1)

		delta := g.CursorDelta()
		str := "X2: " + g.xUnit.PrettyPrint(float64(g.cursorPos[1])) +
			"\nΔX = " + g.xUnit.PrettyPrint(float64(delta))
		if freq, ok := g.CursorFrequencyDual(); ok {
			str += fmt.Sprintf(" (%s)", unit.Hertz.PrettyPrint(freq))
		}
		g.drawAxisLabel(f, xpos1, str, c1, true)
	}
}

// drawAxisLabel draws a labeled box against the bottom edge of the
// timeline, anchored to the left of x (or the right when rightOf is
// set, so the two cursor labels cannot overlap each other).
func (g *Group) drawAxisLabel(f Frame, x float64, s string, c draw.Color, rightOf bool) {
	tw, th := f.Font.Measure(s)
	boxBottom := f.Region.Y + g.timelineHeight
	textTop := boxBottom - (labelPadding + th)

	if rightOf {
		f.List.RectFilled(
			draw.Point{X: x + 1, Y: textTop - labelPadding},
			draw.Point{X: x + 2*labelPadding + tw, Y: boxBottom},
			labelBg, labelRounding)
		f.List.Text(f.Font, draw.Point{X: x + labelPadding, Y: textTop}, c, s)
	} else {
		f.List.RectFilled(
			draw.Point{X: x - (2*labelPadding + tw), Y: textTop - labelPadding},
			draw.Point{X: x - 1, Y: boxBottom},
			labelBg, labelRounding)
		f.List.Text(f.Font, draw.Point{X: x - (labelPadding + tw), Y: textTop}, c, s)
	}
}
