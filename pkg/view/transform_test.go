package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPixelToUnitsRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		tr   Transform
		pos  int64
	}{
		{"default scale", Transform{OffsetUnits: 0, PixelsPerUnit: 0.00005}, 1_000_000},
		{"negative offset", Transform{OffsetUnits: -500_000, PixelsPerUnit: 0.001}, 42},
		{"deep zoom", Transform{OffsetUnits: 12345, PixelsPerUnit: 10}, 12350},
		{"wide view", Transform{OffsetUnits: 0, PixelsPerUnit: 1e-9}, 3_000_000_000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			px := c.tr.ToPixel(c.pos)
			back := c.tr.ToUnits(px)
			// Round trip must be exact within one unit of rounding slack.
			assert.InDelta(t, float64(c.pos), float64(back), 1.0/c.tr.PixelsPerUnit*1e-6+1)
		})
	}
}

func TestToPixelExact(t *testing.T) {
	tr := Transform{OffsetUnits: 1000, PixelsPerUnit: 0.5}
	assert.Equal(t, 0.0, tr.ToPixel(1000))
	assert.Equal(t, 50.0, tr.ToPixel(1100))
	assert.Equal(t, int64(1100), tr.ToUnits(50))
}

func TestZoomKeepsTargetPixel(t *testing.T) {
	tr := Transform{OffsetUnits: 0, PixelsPerUnit: 0.001}
	target := int64(500_000)
	before := tr.ToPixel(target)

	tr.ZoomIn(target, 1.5)
	assert.InDelta(t, before, tr.ToPixel(target), 1e-3)

	tr.ZoomOut(target, 3)
	assert.InDelta(t, before, tr.ToPixel(target), 1e-2)
}

func TestZoomRoundTrip(t *testing.T) {
	targets := []int64{0, 123_456, -987_654, 1_000_000_000}
	factors := []float64{1.5, 2, 5, 1.000001}

	for _, target := range targets {
		for _, f := range factors {
			tr := Transform{OffsetUnits: 42_000, PixelsPerUnit: 0.0001}
			orig := tr

			tr.ZoomIn(target, f)
			tr.ZoomOut(target, f)

			assert.InDelta(t, orig.PixelsPerUnit, tr.PixelsPerUnit, orig.PixelsPerUnit*1e-9,
				"scale must restore for target=%d f=%g", target, f)
			assert.InDelta(t, float64(orig.OffsetUnits), float64(tr.OffsetUnits), 2,
				"offset must restore for target=%d f=%g", target, f)
		}
	}
}

func TestZoomNeverZeroesScale(t *testing.T) {
	tr := NewTransform()
	for i := 0; i < 100; i++ {
		tr.ZoomOut(0, 10)
	}
	assert.Greater(t, tr.PixelsPerUnit, 0.0)
}

func TestDeltaUnits(t *testing.T) {
	tr := Transform{PixelsPerUnit: 0.5}
	assert.Equal(t, int64(20), tr.DeltaUnits(10))
	assert.Equal(t, int64(-20), tr.DeltaUnits(-10))
}
