package display

import (
	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/prefs"
)

var (
	readoutBg     = draw.Color{R: 24, G: 24, B: 28, A: 235}
	readoutBorder = draw.Color{R: 96, G: 96, B: 104, A: 255}
	readoutHeader = draw.Color{R: 200, G: 200, B: 200, A: 255}
	readoutValue  = draw.Color{R: 255, G: 255, B: 255, A: 255}
)

// drawReadouts renders the cursor value table in the bottom-right
// corner while cursors are active: one row per stream, a column per
// cursor, and a delta column in dual mode.
func (h *Host) drawReadouts() {
	rows := h.group.CursorReadouts()
	if len(rows) == 0 {
		return
	}

	headers := []string{"Channel", "Value 1"}
	if rows[0].Value1 != "" || rows[0].Delta != "" {
		headers = append(headers, "Value 2", "Delta")
	}

	const pad = 6.0
	lineH := h.font.Size() + 4

	// Column widths fit the widest cell.
	widths := make([]float64, len(headers))
	for i, hd := range headers {
		widths[i], _ = h.font.Measure(hd)
	}
	for _, r := range rows {
		cells := []string{r.Stream, r.Value0, r.Value1, r.Delta}
		for i := range headers {
			if w, _ := h.font.Measure(cells[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var tableW float64
	for _, w := range widths {
		tableW += w + 2*pad
	}
	tableH := float64(len(rows)+1)*lineH + 2*pad

	x0 := float64(h.winW) - tableW - 12
	y0 := float64(h.winH) - tableH - 12
	h.list.RectFilled(
		draw.Point{X: x0, Y: y0},
		draw.Point{X: x0 + tableW, Y: y0 + tableH},
		readoutBg, 4)
	h.list.Line(
		draw.Point{X: x0, Y: y0},
		draw.Point{X: x0 + tableW, Y: y0},
		readoutBorder, 1)

	drawRow := func(cells []string, colors []draw.Color, y float64) {
		x := x0 + pad
		for i, cell := range cells {
			// Values right-align within their column; names left-align.
			cx := x
			if i > 0 {
				cw, _ := h.font.Measure(cell)
				cx = x + widths[i] - cw
			}
			h.list.Text(h.font, draw.Point{X: cx, Y: y}, colors[i], cell)
			x += widths[i] + 2*pad
		}
	}

	y := y0 + pad
	hdrColors := make([]draw.Color, len(headers))
	for i := range hdrColors {
		hdrColors[i] = readoutHeader
	}
	drawRow(headers, hdrColors, y)
	y += lineH

	for _, r := range rows {
		cells := []string{r.Stream, r.Value0, r.Value1, r.Delta}[:len(headers)]
		colors := make([]draw.Color, len(headers))
		colors[0] = prefs.ParseColor(r.Color)
		for i := 1; i < len(colors); i++ {
			colors[i] = readoutValue
		}
		drawRow(cells, colors, y)
		y += lineH
	}
}
