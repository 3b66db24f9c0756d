// Package draw defines the drawing and input capabilities the viewport
// engine consumes.
//
// The engine never talks to a concrete UI toolkit; it records primitives
// into a List and polls an Input each frame. internal/display provides
// the ebiten-backed implementations, and tests substitute in-memory
// fakes. Coordinates are window-space pixels with the origin top-left.
package draw

// Point is a position in window-space pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned pixel region.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Color is a straight-alpha RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Font measures text for layout. Implementations wrap a concrete font
// face; the engine only needs the size and string extents.
type Font interface {
	// Size returns the nominal font size in pixels.
	Size() float64

	// Measure returns the rendered extents of s in pixels.
	Measure(s string) (w, h float64)
}

// List records draw primitives for the current frame. Calls are ordered;
// later primitives draw over earlier ones.
type List interface {
	// Line draws a line segment of the given width.
	Line(a, b Point, c Color, width float64)

	// RectFilled draws a filled rectangle with rounded corners.
	RectFilled(min, max Point, c Color, rounding float64)

	// Text draws s with its top-left corner at pos.
	Text(f Font, pos Point, c Color, s string)
}

// Button identifies a pointer button.
type Button int

const (
	MouseLeft Button = iota
	MouseMiddle
	MouseRight
)

// Cursor identifies a pointer shape hint.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorResizeEW
)

// Input exposes per-frame pointer state. Pressed and Released are edge
// triggered: they report true only on the frame the transition happened.
type Input interface {
	MousePos() Point
	MouseDelta() Point
	Pressed(b Button) bool
	Released(b Button) bool

	// Wheel returns the vertical scroll steps since the last frame.
	Wheel() float64

	// SetCursor requests a pointer shape for this frame.
	SetCursor(c Cursor)
}
