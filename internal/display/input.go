package display

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/akowalsk/scopeview/pkg/draw"
)

// buttonMap translates the engine's button IDs to ebiten's.
var buttonMap = map[draw.Button]ebiten.MouseButton{
	draw.MouseLeft:   ebiten.MouseButtonLeft,
	draw.MouseMiddle: ebiten.MouseButtonMiddle,
	draw.MouseRight:  ebiten.MouseButtonRight,
}

// inputAdapter snapshots pointer state once per Update tick. The group
// reads the snapshot during Draw, so edges stay stable for the whole
// frame regardless of when the group samples them.
type inputAdapter struct {
	pos      draw.Point
	delta    draw.Point
	wheel    float64
	pressed  map[draw.Button]bool
	released map[draw.Button]bool

	shape draw.Cursor
}

func newInputAdapter() *inputAdapter {
	return &inputAdapter{
		pressed:  make(map[draw.Button]bool),
		released: make(map[draw.Button]bool),
	}
}

// poll refreshes the snapshot. Call once per Update tick.
func (in *inputAdapter) poll() {
	x, y := ebiten.CursorPosition()
	pos := draw.Point{X: float64(x), Y: float64(y)}
	in.delta = draw.Point{X: pos.X - in.pos.X, Y: pos.Y - in.pos.Y}
	in.pos = pos

	_, in.wheel = ebiten.Wheel()

	for b, eb := range buttonMap {
		in.pressed[b] = inpututil.IsMouseButtonJustPressed(eb)
		in.released[b] = inpututil.IsMouseButtonJustReleased(eb)
	}

	in.shape = draw.CursorDefault
}

// apply pushes the cursor shape requested during the frame to ebiten.
func (in *inputAdapter) apply() {
	switch in.shape {
	case draw.CursorResizeEW:
		ebiten.SetCursorShape(ebiten.CursorShapeEWResize)
	default:
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

func (in *inputAdapter) MousePos() draw.Point        { return in.pos }
func (in *inputAdapter) MouseDelta() draw.Point      { return in.delta }
func (in *inputAdapter) Pressed(b draw.Button) bool  { return in.pressed[b] }
func (in *inputAdapter) Released(b draw.Button) bool { return in.released[b] }
func (in *inputAdapter) Wheel() float64              { return in.wheel }
func (in *inputAdapter) SetCursor(c draw.Cursor)     { in.shape = c }

var _ draw.Input = (*inputAdapter)(nil)
