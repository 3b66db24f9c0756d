package group

import (
	"math"

	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/session"
	"github.com/akowalsk/scopeview/pkg/unit"
)

// markerTimestamp returns the acquisition timestamp keying this group's
// marker collection. ok is false when the group has no time-domain
// content to attach markers to.
func (g *Group) markerTimestamp() (int64, bool) {
	if g.xUnit != unit.Femtoseconds || len(g.areas) == 0 {
		return 0, false
	}
	return g.areas[0].WaveformTimestamp(), true
}

// AddMarkerAt creates a session marker at the given position with an
// automatic name. ok is false if the group cannot hold markers.
func (g *Group) AddMarkerAt(offset int64) (session.MarkerRef, bool) {
	return g.AddNamedMarkerAt("", offset)
}

// AddNamedMarkerAt creates a named marker; an empty name falls back to
// the session's automatic naming.
func (g *Group) AddNamedMarkerAt(name string, offset int64) (session.MarkerRef, bool) {
	ts, ok := g.markerTimestamp()
	if !ok {
		return session.MarkerRef{}, false
	}
	return g.session.AddMarker(ts, session.Marker{Name: name, Offset: offset}), true
}

// handleMarkerInput hit-tests the session markers and tracks an
// in-flight marker drag. Runs first in the input sequence so markers win
// ambiguous hits against cursors sitting at the same position.
func (g *Group) handleMarkerInput(f Frame) {
	mouse := f.Input.MousePos()

	if ts, ok := g.markerTimestamp(); ok && f.Hovered {
		markers := g.session.Markers(ts)
		for i := range markers {
			xpos := math.Round(g.toWindowPixel(markers[i].Offset))
			if math.Abs(mouse.X-xpos) >= hitRadius(f) {
				continue
			}
			f.Input.SetCursor(draw.CursorResizeEW)
			if f.Input.Pressed(draw.MouseLeft) {
				g.drag.beginMarker(session.MarkerRef{Timestamp: ts, Index: i})
			}
		}
	}

	if g.drag.state == DragMarker {
		ref := g.drag.marker
		if f.Input.Released(draw.MouseLeft) {
			g.drag.end()
		}
		g.session.SetMarkerOffset(ref, g.fromWindowPixel(mouse.X))
	}
}

// drawMarkers renders the marker lines and their name labels, anchored
// like the cursor labels at the bottom of the timeline.
func (g *Group) drawMarkers(f Frame) {
	ts, ok := g.markerTimestamp()
	if !ok {
		return
	}

	color := g.session.Preferences().MarkerColor()
	top := f.Region.Y
	bottom := f.Region.Y + f.Region.H

	for _, m := range g.session.Markers(ts) {
		xpos := math.Round(g.toWindowPixel(m.Offset))
		f.List.Line(draw.Point{X: xpos, Y: top}, draw.Point{X: xpos, Y: bottom}, color, 1)
		g.drawAxisLabel(f, xpos, m.Name+": "+g.xUnit.PrettyPrint(float64(m.Offset)), color, false)
	}
}
