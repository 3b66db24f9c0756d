// Package waveform models acquired channel data.
//
// A Series holds one acquisition in one of two sample layouts:
//
//   - Uniform: a fixed interval between samples, so position and duration
//     are implicit in the index.
//   - Sparse: explicit per-sample offset and duration, used for decoded
//     or irregularly sampled data.
//
// The layout is a closed tagged variant: Kind is the discriminant and the
// Offset/Duration/Value accessors work for both layouts, so callers never
// type-switch on the concrete encoding.
//
// All positions and durations are in X axis units (femtoseconds for time
// domain). Positions are int64 throughout; sample values are float64.
package waveform

import (
	"sort"

	"github.com/akowalsk/scopeview/pkg/unit"
)

// Kind discriminates the sample layout of a Series.
type Kind int

const (
	// KindUniform is fixed-interval sample data.
	KindUniform Kind = iota

	// KindSparse is explicit offset+duration sample data.
	KindSparse
)

// Series is one channel's acquired sample data.
type Series struct {
	kind Kind

	// uniform layout
	interval int64

	// sparse layout
	offsets   []int64
	durations []int64

	values []float64
}

// NewUniform creates a uniform series with the given sample interval in
// X axis units. Interval must be positive.
func NewUniform(interval int64, values []float64) *Series {
	return &Series{
		kind:     KindUniform,
		interval: interval,
		values:   values,
	}
}

// NewSparse creates a sparse series. Offsets must be sorted ascending and
// all three slices must be the same length.
func NewSparse(offsets, durations []int64, values []float64) *Series {
	return &Series{
		kind:      KindSparse,
		offsets:   offsets,
		durations: durations,
		values:    values,
	}
}

// Kind returns the sample layout discriminant.
func (s *Series) Kind() Kind { return s.kind }

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.values) }

// Offset returns the start position of sample i in X axis units.
func (s *Series) Offset(i int) int64 {
	if s.kind == KindUniform {
		return int64(i) * s.interval
	}
	return s.offsets[i]
}

// Duration returns the duration of sample i in X axis units.
func (s *Series) Duration(i int) int64 {
	if s.kind == KindUniform {
		return s.interval
	}
	return s.durations[i]
}

// Value returns the value of sample i.
func (s *Series) Value(i int) float64 { return s.values[i] }

// Bounds returns the start of the first sample and the end of the last
// one. ok is false for an empty series.
func (s *Series) Bounds() (start, end int64, ok bool) {
	n := s.Len()
	if n == 0 {
		return 0, 0, false
	}
	return s.Offset(0), s.Offset(n-1) + s.Duration(n-1), true
}

// ValueAt looks up the sample value at position t.
//
// With zeroHold the value of the sample containing (or preceding) t is
// returned unchanged; otherwise the two bracketing samples are linearly
// interpolated. Positions outside the sampled range have no value and
// return ok=false; that is an expected condition, not an error.
func (s *Series) ValueAt(t int64, zeroHold bool) (float64, bool) {
	n := s.Len()
	if n == 0 {
		return 0, false
	}
	start, end, _ := s.Bounds()
	if t < start || t > end {
		return 0, false
	}

	i := s.indexAt(t)
	if zeroHold || i >= n-1 {
		return s.values[i], true
	}

	t0 := s.Offset(i)
	t1 := s.Offset(i + 1)
	if t1 <= t0 {
		return s.values[i], true
	}
	frac := float64(t-t0) / float64(t1-t0)
	return s.values[i] + frac*(s.values[i+1]-s.values[i]), true
}

// indexAt returns the index of the last sample starting at or before t.
// Caller has already verified t is within bounds.
func (s *Series) indexAt(t int64) int {
	n := s.Len()
	if s.kind == KindUniform {
		i := int(t / s.interval)
		if i >= n {
			i = n - 1
		}
		return i
	}
	// First offset greater than t, minus one.
	i := sort.Search(n, func(j int) bool { return s.offsets[j] > t })
	if i == 0 {
		return 0
	}
	return i - 1
}

// Flags describe per-stream display behavior.
type Flags uint32

const (
	// FlagNoInterpolation marks discrete-valued data that must use
	// zero-order hold when sampled between points.
	FlagNoInterpolation Flags = 1 << iota
)

// Stream is a named view of one Series plus its display metadata.
type Stream struct {
	Name  string
	Color string
	YUnit unit.Unit
	Flags Flags
	Data  *Series
}

// ZeroHold reports whether cursor readouts should use zero-order hold
// for this stream.
func (s Stream) ZeroHold() bool {
	return s.Flags&FlagNoInterpolation != 0
}

// ValueAt samples the stream at position t using its interpolation policy.
func (s Stream) ValueAt(t int64) (float64, bool) {
	if s.Data == nil {
		return 0, false
	}
	return s.Data.ValueAt(t, s.ZeroHold())
}
