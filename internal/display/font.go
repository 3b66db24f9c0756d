package display

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// bitmapFont wraps the fixed-size basicfont face behind the engine's
// Font interface. Measurement handles multi-line strings since cursor
// labels stack position and delta readouts.
type bitmapFont struct {
	face font.Face
	size float64
}

func newBitmapFont() *bitmapFont {
	return &bitmapFont{face: basicfont.Face7x13, size: 13}
}

func (f *bitmapFont) Size() float64 { return f.size }

func (f *bitmapFont) Measure(s string) (float64, float64) {
	var w float64
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		lw := float64(font.MeasureString(f.face, line).Round())
		if lw > w {
			w = lw
		}
	}
	return w, f.size * float64(len(lines))
}

// ascent returns the baseline offset for drawing a line of text from
// its top-left corner.
func (f *bitmapFont) ascent() float64 {
	return float64(f.face.Metrics().Ascent.Round())
}
