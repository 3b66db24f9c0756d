// Package view implements the time-axis viewport: the mapping between
// screen pixels and X axis units, zooming about an anchor position, and
// adaptive tick graduation for the timeline.
//
// Positions on the X axis are int64 units (femtoseconds for time domain)
// and the scale is a float64 pixel density, so the transform stays exact
// and reversible across zoom ranges spanning femtoseconds to seconds.
package view

import "math"

// Transform maps between X axis units and plot-relative pixels.
//
// PixelsPerUnit must stay positive; zoom operations multiply or divide it
// and never set it directly, so only a caller bug can violate that.
type Transform struct {
	// OffsetUnits is the X axis position at the left edge of the plot.
	OffsetUnits int64

	// PixelsPerUnit is the display density of the X axis.
	PixelsPerUnit float64
}

// NewTransform returns a transform with the default scale used for a
// fresh group before any waveform has been autoscaled.
func NewTransform() Transform {
	return Transform{PixelsPerUnit: 0.00005}
}

// ToPixel converts an X axis position to a plot-relative pixel position.
func (t Transform) ToPixel(units int64) float64 {
	return float64(units-t.OffsetUnits) * t.PixelsPerUnit
}

// ToUnits converts a plot-relative pixel position to an X axis position.
// Inverse of ToPixel up to floating rounding.
func (t Transform) ToUnits(pixel float64) int64 {
	return t.OffsetUnits + int64(math.Round(pixel/t.PixelsPerUnit))
}

// DeltaUnits converts a pixel distance to an X axis distance.
func (t Transform) DeltaUnits(pixels float64) int64 {
	return int64(math.Round(pixels / t.PixelsPerUnit))
}

// WidthUnits returns the number of X axis units visible in a plot of the
// given pixel width.
func (t Transform) WidthUnits(widthPixels float64) int64 {
	return int64(widthPixels / t.PixelsPerUnit)
}

// ZoomIn increases the scale by factor, keeping the X axis position
// target at the same pixel before and after.
func (t *Transform) ZoomIn(target int64, factor float64) {
	delta := float64(target - t.OffsetUnits)
	t.PixelsPerUnit *= factor
	t.OffsetUnits = target - int64(math.Round(delta/factor))
}

// ZoomOut decreases the scale by factor, keeping the X axis position
// target at the same pixel before and after.
func (t *Transform) ZoomOut(target int64, factor float64) {
	delta := float64(target - t.OffsetUnits)
	t.PixelsPerUnit /= factor
	t.OffsetUnits = target - int64(math.Round(delta*factor))
}
