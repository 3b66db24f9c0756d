package waveform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformAccessors(t *testing.T) {
	s := NewUniform(1000, []float64{0, 1, 2, 3})

	assert.Equal(t, KindUniform, s.Kind())
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, int64(2000), s.Offset(2))
	assert.Equal(t, int64(1000), s.Duration(2))

	start, end, ok := s.Bounds()
	assert.True(t, ok)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, int64(4000), end)
}

func TestSparseAccessors(t *testing.T) {
	s := NewSparse(
		[]int64{100, 500, 2000},
		[]int64{50, 100, 300},
		[]float64{1, 2, 3},
	)

	assert.Equal(t, KindSparse, s.Kind())
	assert.Equal(t, int64(500), s.Offset(1))
	assert.Equal(t, int64(300), s.Duration(2))

	start, end, ok := s.Bounds()
	assert.True(t, ok)
	assert.Equal(t, int64(100), start)
	assert.Equal(t, int64(2300), end)
}

func TestBoundsEmpty(t *testing.T) {
	s := NewUniform(1000, nil)
	_, _, ok := s.Bounds()
	assert.False(t, ok)
}

func TestValueAtLinearInterpolation(t *testing.T) {
	s := NewUniform(1000, []float64{0, 10, 20})

	v, ok := s.ValueAt(500, false)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, v, 1e-9)

	v, ok = s.ValueAt(1000, false)
	assert.True(t, ok)
	assert.InDelta(t, 10.0, v, 1e-9)
}

func TestValueAtZeroHold(t *testing.T) {
	s := NewUniform(1000, []float64{0, 10, 20})

	v, ok := s.ValueAt(999, true)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	v, ok = s.ValueAt(1001, true)
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
}

func TestValueAtOutOfRange(t *testing.T) {
	s := NewUniform(1000, []float64{0, 10})

	_, ok := s.ValueAt(-1, false)
	assert.False(t, ok)

	// End of last sample is 2000; past that there is no data.
	_, ok = s.ValueAt(2001, false)
	assert.False(t, ok)
}

func TestSparseValueAt(t *testing.T) {
	s := NewSparse(
		[]int64{0, 1000},
		[]int64{1000, 1000},
		[]float64{0, 100},
	)

	v, ok := s.ValueAt(250, false)
	assert.True(t, ok)
	assert.InDelta(t, 25.0, v, 1e-9)

	v, ok = s.ValueAt(250, true)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestStreamInterpolationPolicy(t *testing.T) {
	data := NewUniform(1000, []float64{0, 10})

	analog := Stream{Name: "ch1", Data: data}
	v, ok := analog.ValueAt(500)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, v, 1e-9)

	digital := Stream{Name: "d0", Data: data, Flags: FlagNoInterpolation}
	assert.True(t, digital.ZeroHold())
	v, ok = digital.ValueAt(500)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}
