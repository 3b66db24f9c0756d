package display

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/akowalsk/scopeview/pkg/draw"
)

func rgba(c draw.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// screenList records directly onto the current frame's target image.
// Primitives draw in call order, which preserves the group's layering
// (timeline, areas, cursor overlay, marker overlay).
type screenList struct {
	dst  *ebiten.Image
	font *bitmapFont
}

func (l *screenList) Line(a, b draw.Point, c draw.Color, width float64) {
	vector.StrokeLine(l.dst,
		float32(a.X), float32(a.Y),
		float32(b.X), float32(b.Y),
		float32(width), rgba(c), true)
}

func (l *screenList) RectFilled(min, max draw.Point, c draw.Color, rounding float64) {
	if max.X < min.X {
		min.X, max.X = max.X, min.X
	}
	if max.Y < min.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	vector.DrawFilledRect(l.dst,
		float32(min.X), float32(min.Y),
		float32(max.X-min.X), float32(max.Y-min.Y),
		rgba(c), true)
}

func (l *screenList) Text(f draw.Font, pos draw.Point, c draw.Color, s string) {
	bf, ok := f.(*bitmapFont)
	if !ok {
		bf = l.font
	}
	y := pos.Y + bf.ascent()
	for _, line := range strings.Split(s, "\n") {
		text.Draw(l.dst, line, bf.face, int(pos.X), int(y), rgba(c))
		y += bf.size
	}
}

var _ draw.List = (*screenList)(nil)
