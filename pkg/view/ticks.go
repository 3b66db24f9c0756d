package view

import (
	"math"

	"github.com/akowalsk/scopeview/pkg/unit"
)

// DefaultMinLabelSpacing is the minimum distance between timeline labels
// in device-independent pixels.
const DefaultMinLabelSpacing = 75.0

// Subticks is the number of fine ticks each graduation is divided into.
const Subticks = 5

// Tick is one labeled graduation on the timeline.
type Tick struct {
	// Pos is the graduation position in X axis units. It is a float64
	// because graduation stepping accumulates fractional positions at
	// extreme zoom levels.
	Pos float64

	// Pixel is the plot-relative pixel position of the graduation.
	Pixel float64

	// Label is the human-readable position, formatted by the axis unit.
	Label string
}

// RoundingDivisor picks the rounding granularity for tick labels from
// the visible width in X axis units. The table keeps granularity
// proportional to zoom level across fifteen orders of magnitude.
func RoundingDivisor(widthUnits int64) int64 {
	switch {
	case widthUnits < 1e7:
		switch {
		case widthUnits < 1e2:
			return 1e1
		case widthUnits < 1e5:
			return 1e4
		case widthUnits < 5e5:
			return 5e4
		case widthUnits < 1e6:
			return 1e5
		case widthUnits < 2.5e6:
			return 2.5e5
		case widthUnits < 5e6:
			return 5e5
		default:
			return 1e6
		}
	case widthUnits < 1e9:
		return 1e6
	case widthUnits < 1e12:
		if widthUnits < 1e11 {
			return 1e8
		}
		return 1e9
	case widthUnits < 1e14:
		return 1e12
	default:
		return 1e15
	}
}

// GraduationSpacing computes the spacing between labeled graduations in
// X axis units for the given transform, plot width, and minimum label
// spacing. The nominal spacing is snapped up to the next power of five
// times the rounding divisor so graduations land on clean engineering
// values. ok is false for degenerate views (zero width, empty plot), in
// which case the caller must skip tick rendering entirely.
func GraduationSpacing(t Transform, widthPixels, minLabelPixels float64) (int64, bool) {
	widthUnits := t.WidthUnits(widthPixels)
	divisor := RoundingDivisor(widthUnits)

	nominal := (minLabelPixels / t.PixelsPerUnit) / float64(divisor)
	logUnits := math.Log(nominal) / math.Log(5)
	rounded := math.Pow(5, math.Ceil(logUnits))
	spacing := int64(math.Round(rounded * float64(divisor)))

	if spacing <= 0 {
		return 0, false
	}
	return spacing, true
}

// Graduations generates the labeled ticks for a plot of the given width.
//
// The first graduation is the nearest multiple of the spacing at or
// before the left-edge offset; generation continues one spacing past the
// right edge so partially visible labels still appear. The returned
// slice may include ticks with negative Pixel values (left of the plot);
// renderers clip as they draw, matching the fine-tick behavior where
// subdivisions of an offscreen graduation can still be visible.
func Graduations(t Transform, widthPixels float64, minLabelPixels float64, u unit.Unit) ([]Tick, int64, bool) {
	spacing, ok := GraduationSpacing(t, widthPixels, minLabelPixels)
	if !ok {
		return nil, 0, false
	}

	widthUnits := t.WidthUnits(widthPixels)
	start := math.Floor(float64(t.OffsetUnits)/float64(spacing)) * float64(spacing)

	var ticks []Tick
	for pos := start; pos < start+float64(widthUnits)+float64(spacing); pos += float64(spacing) {
		pixel := (pos - float64(t.OffsetUnits)) * t.PixelsPerUnit
		if pixel > widthPixels {
			break
		}
		ticks = append(ticks, Tick{
			Pos:   pos,
			Pixel: pixel,
			Label: u.PrettyPrint(pos),
		})
	}
	return ticks, spacing, true
}
