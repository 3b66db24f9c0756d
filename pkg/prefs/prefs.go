// Package prefs holds user-tunable display preferences.
//
// Preferences are plain data with compiled-in defaults; an optional TOML
// file overrides individual fields. The viewport engine reads colors and
// font sizing through the typed accessors so it never parses color
// strings on the render path.
//
// # File format
//
//	[appearance.timeline]
//	axis_color = "#c0c0c0"
//	text_color = "#ffffff"
//
//	[appearance.cursors]
//	cursor_1_color = "#ffff00"
//	cursor_2_color = "#ff8000"
//
//	[input]
//	zoom_step = 1.5
package prefs

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/errors"
)

// Prefs is the full preference tree.
type Prefs struct {
	Appearance Appearance `toml:"appearance"`
	Input      Input      `toml:"input"`
}

// Appearance groups visual preferences.
type Appearance struct {
	Timeline Timeline `toml:"timeline"`
	Cursors  Cursors  `toml:"cursors"`
}

// Timeline styles the X axis strip.
type Timeline struct {
	AxisColor string  `toml:"axis_color"`
	TextColor string  `toml:"text_color"`
	FontSize  float64 `toml:"font_size"`

	// MinLabelSpacing is the minimum distance between tick labels in
	// device-independent pixels.
	MinLabelSpacing float64 `toml:"min_label_spacing"`
}

// Cursors styles the measurement cursors and markers.
type Cursors struct {
	Cursor1Color string  `toml:"cursor_1_color"`
	Cursor2Color string  `toml:"cursor_2_color"`
	FillColor    string  `toml:"cursor_fill_color"`
	MarkerColor  string  `toml:"marker_color"`
	LabelFont    float64 `toml:"label_font_size"`
}

// Input groups pointer behavior preferences.
type Input struct {
	// ZoomStep is the zoom factor applied per mouse wheel step.
	ZoomStep float64 `toml:"zoom_step"`
}

// Default returns the compiled-in preference set.
func Default() *Prefs {
	return &Prefs{
		Appearance: Appearance{
			Timeline: Timeline{
				AxisColor:       "#c0c0c0",
				TextColor:       "#ffffff",
				FontSize:        13,
				MinLabelSpacing: 75,
			},
			Cursors: Cursors{
				Cursor1Color: "#ffff00",
				Cursor2Color: "#ff8000",
				FillColor:    "#ffff0040",
				MarkerColor:  "#00ffff",
				LabelFont:    13,
			},
		},
		Input: Input{
			ZoomStep: 1.5,
		},
	}
}

// Load reads a TOML preference file over the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func Load(path string) (*Prefs, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPrefs, err, "parse %s", path)
	}
	return p, nil
}

// =============================================================================
// Typed accessors
// =============================================================================

// CursorColor returns the color of cursor 0 or 1.
func (p *Prefs) CursorColor(i int) draw.Color {
	if i == 0 {
		return ParseColor(p.Appearance.Cursors.Cursor1Color)
	}
	return ParseColor(p.Appearance.Cursors.Cursor2Color)
}

// CursorFillColor returns the fill between dual cursors.
func (p *Prefs) CursorFillColor() draw.Color {
	return ParseColor(p.Appearance.Cursors.FillColor)
}

// MarkerColor returns the marker line and label color.
func (p *Prefs) MarkerColor() draw.Color {
	return ParseColor(p.Appearance.Cursors.MarkerColor)
}

// TimelineAxisColor returns the tick and border color of the timeline.
func (p *Prefs) TimelineAxisColor() draw.Color {
	return ParseColor(p.Appearance.Timeline.AxisColor)
}

// TimelineTextColor returns the tick label color.
func (p *Prefs) TimelineTextColor() draw.Color {
	return ParseColor(p.Appearance.Timeline.TextColor)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" into a Color. Malformed
// strings fall back to opaque white rather than failing a frame.
func ParseColor(s string) draw.Color {
	var r, g, b, a uint8 = 255, 255, 255, 255
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return draw.Color{R: 255, G: 255, B: 255, A: 255}
		}
	case 9:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return draw.Color{R: 255, G: 255, B: 255, A: 255}
		}
	default:
		return draw.Color{R: 255, G: 255, B: 255, A: 255}
	}
	return draw.Color{R: r, G: g, B: b, A: a}
}
