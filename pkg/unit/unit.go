// Package unit provides axis units and human-readable value formatting.
//
// A Unit identifies the physical quantity carried by an axis (time in
// femtoseconds, frequency in hertz, voltage, and so on) and knows how to
// pretty-print raw values with an appropriate SI prefix. Time-domain axes
// use femtoseconds as the smallest tick so that integer positions stay
// exact across the full zoom range of the viewport.
package unit

import (
	"fmt"
	"math"
)

// FsPerSecond is the number of femtoseconds in one second, used to convert
// a time-domain delta into its frequency-domain dual.
const FsPerSecond = 1e15

// Unit identifies the quantity measured along an axis.
type Unit int

const (
	// Femtoseconds is the time-domain X axis unit.
	Femtoseconds Unit = iota

	// Hertz is the frequency-domain X axis unit.
	Hertz

	// Volts is the default analog Y axis unit.
	Volts

	// Amps is the Y axis unit for current probes.
	Amps

	// Decibels is a logarithmic ratio Y axis unit.
	Decibels

	// Counts is a dimensionless Y axis unit for digital or histogram data.
	Counts
)

// String returns the short name of the unit.
func (u Unit) String() string {
	switch u {
	case Femtoseconds:
		return "fs"
	case Hertz:
		return "Hz"
	case Volts:
		return "V"
	case Amps:
		return "A"
	case Decibels:
		return "dB"
	case Counts:
		return ""
	default:
		return "?"
	}
}

// siStep is one rung of a pretty-print ladder: values at or above the
// threshold are divided by scale and suffixed.
type siStep struct {
	threshold float64
	scale     float64
	suffix    string
}

// Ladders run largest-first; the first matching rung wins.
var (
	fsLadder = []siStep{
		{1e15, 1e15, "s"},
		{1e12, 1e12, "ms"},
		{1e9, 1e9, "μs"},
		{1e6, 1e6, "ns"},
		{1e3, 1e3, "ps"},
		{0, 1, "fs"},
	}
	hzLadder = []siStep{
		{1e9, 1e9, "GHz"},
		{1e6, 1e6, "MHz"},
		{1e3, 1e3, "kHz"},
		{0, 1, "Hz"},
	}
	voltLadder = []siStep{
		{1, 1, "V"},
		{1e-3, 1e-3, "mV"},
		{0, 1e-6, "μV"},
	}
	ampLadder = []siStep{
		{1, 1, "A"},
		{1e-3, 1e-3, "mA"},
		{0, 1e-6, "μA"},
	}
)

// PrettyPrint formats a raw value in this unit with an SI prefix chosen
// from the value's magnitude, e.g. 2.5e9 fs -> "2.5 μs".
func (u Unit) PrettyPrint(value float64) string {
	switch u {
	case Femtoseconds:
		return prettyFromLadder(value, fsLadder)
	case Hertz:
		return prettyFromLadder(value, hzLadder)
	case Volts:
		return prettyFromLadder(value, voltLadder)
	case Amps:
		return prettyFromLadder(value, ampLadder)
	case Decibels:
		return fmt.Sprintf("%.2f dB", value)
	case Counts:
		return trimZeros(value)
	default:
		return trimZeros(value)
	}
}

func prettyFromLadder(value float64, ladder []siStep) string {
	mag := math.Abs(value)
	for _, step := range ladder {
		if mag >= step.threshold && step.threshold != 0 {
			return trimZeros(value/step.scale) + " " + step.suffix
		}
	}
	last := ladder[len(ladder)-1]
	return trimZeros(value/last.scale) + " " + last.suffix
}

// trimZeros formats with up to four significant decimals, dropping
// trailing zeros so tick labels stay short.
func trimZeros(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
