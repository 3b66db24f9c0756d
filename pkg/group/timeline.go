package group

import (
	"math"

	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/view"
)

// timelineStrip returns the X axis strip region across the top of the
// group, from the most recent frame's layout.
func (g *Group) timelineStrip(f Frame) draw.Rect {
	return draw.Rect{X: f.Region.X, Y: f.Region.Y, W: f.Region.W, H: g.timelineHeight}
}

// handleTimelineInput processes the strip's pointer interaction:
// left-drag panning, wheel zoom about the pointer, and middle-click
// autoscale. An active pan keeps tracking even after the pointer leaves
// the strip; only the initial claim requires hovering it.
func (g *Group) handleTimelineInput(f Frame) {
	strip := g.timelineStrip(f)
	mouse := f.Input.MousePos()

	if f.Hovered && strip.Contains(mouse) {
		if f.Input.Pressed(draw.MouseLeft) {
			g.drag.begin(DragTimeline)
		}
		if f.Input.Pressed(draw.MouseMiddle) {
			g.autoscale(f.Region.W)
		}
		if wheel := f.Input.Wheel(); wheel != 0 {
			g.wheelZoom(wheel, mouse.X)
		}
	}

	if g.drag.state == DragTimeline {
		if dx := f.Input.MouseDelta().X; dx != 0 {
			g.xform.OffsetUnits -= g.xform.DeltaUnits(dx)
			g.ClearPersistence()
		}
		if f.Input.Released(draw.MouseLeft) {
			g.drag.end()
		}
	}
}

// drawTimeline renders the X axis strip.
func (g *Group) drawTimeline(f Frame) {
	g.drawTicks(f, g.timelineStrip(f))
}

// wheelZoom zooms about the X axis position under the pointer, one
// preference-controlled step per wheel detent.
func (g *Group) wheelZoom(wheel float64, mouseX float64) {
	step := g.session.Preferences().Input.ZoomStep
	if step <= 1 {
		step = 1.5
	}
	target := g.fromWindowPixel(mouseX)
	if wheel > 0 {
		g.ZoomInAt(target, math.Pow(step, wheel))
	} else {
		g.ZoomOutAt(target, math.Pow(step, -wheel))
	}
}

// autoscale fits the viewport to the union of the displayed streams'
// extents. Streams with no samples are skipped; if nothing has data, or
// the union collapses to a point, the viewport is left untouched.
func (g *Group) autoscale(widthPixels float64) {
	var (
		lo, hi int64
		any    bool
	)
	for _, a := range g.areas {
		for i := 0; i < a.StreamCount(); i++ {
			data := a.Stream(i).Data
			if data == nil {
				continue
			}
			start, end, ok := data.Bounds()
			if !ok {
				continue
			}
			if !any || start < lo {
				lo = start
			}
			if !any || end > hi {
				hi = end
			}
			any = true
		}
	}
	span := hi - lo
	if !any || span <= 0 || widthPixels <= 0 {
		return
	}
	g.xform.OffsetUnits = lo
	g.xform.PixelsPerUnit = widthPixels / float64(span)
	g.ClearPersistence()
}

// drawTicks renders the axis border, graduation ticks with labels, and
// the fine subdivision ticks between them.
func (g *Group) drawTicks(f Frame, strip draw.Rect) {
	p := g.session.Preferences()
	axisColor := p.TimelineAxisColor()
	textColor := p.TimelineTextColor()

	minSpacing := p.Appearance.Timeline.MinLabelSpacing
	if minSpacing <= 0 {
		minSpacing = view.DefaultMinLabelSpacing
	}

	const (
		fineTickLen = 10.0
		textMargin  = 2.0
	)
	bottom := strip.Y + strip.H
	ymid := strip.Y + strip.H/2

	f.List.Line(
		draw.Point{X: strip.X, Y: strip.Y},
		draw.Point{X: strip.X + strip.W, Y: strip.Y},
		axisColor, 2)

	ticks, spacing, ok := view.Graduations(g.xform, strip.W, minSpacing, g.xUnit)
	if !ok {
		return
	}

	fineStep := float64(spacing) * g.xform.PixelsPerUnit / view.Subticks

	for _, tk := range ticks {
		x := strip.X + tk.Pixel
		if tk.Pixel >= 0 {
			f.List.Line(
				draw.Point{X: x, Y: strip.Y},
				draw.Point{X: x, Y: bottom},
				axisColor, 1)
			f.List.Text(f.Font, draw.Point{X: x + textMargin, Y: ymid}, textColor, tk.Label)
		}

		// Fine ticks subdivide the span to the right of each graduation.
		// The graduation itself may be offscreen left while some of its
		// subdivisions are visible, so clip per tick.
		for j := 1; j < view.Subticks; j++ {
			fx := x + float64(j)*fineStep
			if fx < strip.X || fx > strip.X+strip.W {
				continue
			}
			f.List.Line(
				draw.Point{X: fx, Y: strip.Y},
				draw.Point{X: fx, Y: strip.Y + fineTickLen},
				axisColor, 1)
		}
	}
}
