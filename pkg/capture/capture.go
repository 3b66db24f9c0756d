// Package capture loads and saves waveform captures.
//
// A capture is one acquisition's worth of channel data plus the metadata
// the viewer needs: the acquisition timestamp that keys session markers,
// and per-channel display hints. Captures are stored as JSON files;
// instrument drivers that produce them are outside this module.
package capture

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/akowalsk/scopeview/pkg/errors"
	"github.com/akowalsk/scopeview/pkg/unit"
	"github.com/akowalsk/scopeview/pkg/waveform"
)

// Capture is one acquisition across any number of channels.
type Capture struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp int64     `json:"timestamp"`
	Channels  []Channel `json:"channels"`
}

// Channel is one stream of sample data with display metadata.
//
// Interval > 0 marks uniform data; otherwise Offsets/Durations carry the
// sparse layout.
type Channel struct {
	Name            string    `json:"name"`
	Color           string    `json:"color"`
	YUnit           string    `json:"y_unit"`
	NoInterpolation bool      `json:"no_interpolation,omitempty"`
	Interval        int64     `json:"interval,omitempty"`
	Offsets         []int64   `json:"offsets,omitempty"`
	Durations       []int64   `json:"durations,omitempty"`
	Values          []float64 `json:"values"`
}

// Load reads a capture file.
func Load(path string) (*Capture, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeCaptureNotFound, "capture %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}

	var c Capture
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCapture, err, "parse %s", path)
	}
	if len(c.Channels) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCapture, "capture %s: no channels", path)
	}
	for _, ch := range c.Channels {
		if ch.Interval <= 0 && len(ch.Offsets) != len(ch.Values) {
			return nil, errors.New(errors.ErrCodeInvalidCapture,
				"channel %s: sparse layout needs one offset per value", ch.Name)
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return &c, nil
}

// Save writes a capture file with indented JSON.
func (c *Capture) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode capture")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// Streams converts the capture's channels into renderable streams.
func (c *Capture) Streams() []waveform.Stream {
	out := make([]waveform.Stream, 0, len(c.Channels))
	for _, ch := range c.Channels {
		var data *waveform.Series
		if ch.Interval > 0 {
			data = waveform.NewUniform(ch.Interval, ch.Values)
		} else {
			data = waveform.NewSparse(ch.Offsets, ch.Durations, ch.Values)
		}

		var flags waveform.Flags
		if ch.NoInterpolation {
			flags |= waveform.FlagNoInterpolation
		}

		out = append(out, waveform.Stream{
			Name:  ch.Name,
			Color: ch.Color,
			YUnit: parseYUnit(ch.YUnit),
			Flags: flags,
			Data:  data,
		})
	}
	return out
}

func parseYUnit(s string) unit.Unit {
	switch s {
	case "V", "":
		return unit.Volts
	case "A":
		return unit.Amps
	case "dB":
		return unit.Decibels
	case "Hz":
		return unit.Hertz
	default:
		return unit.Counts
	}
}

// Demo generates a synthetic capture spanning one microsecond: a sine, a
// square wave, and a digital strobe, so the viewer runs without any
// instrument attached.
func Demo() *Capture {
	const (
		samples  = 2000
		interval = 500 // fs per sample; the capture spans 1e6 fs
	)

	sine := make([]float64, samples)
	square := make([]float64, samples)
	for i := range sine {
		phase := float64(i) / 200 * 2 * math.Pi
		sine[i] = 0.8 * math.Sin(phase)
		if math.Sin(phase/2) >= 0 {
			square[i] = 1.0
		} else {
			square[i] = -1.0
		}
	}

	// Sparse digital strobe: short pulses at irregular offsets.
	offsets := []int64{50_000, 210_000, 400_000, 635_000, 810_000}
	durations := []int64{20_000, 35_000, 20_000, 50_000, 20_000}
	strobe := []float64{1, 0, 1, 1, 0}

	return &Capture{
		ID:        uuid.NewString(),
		Name:      "demo",
		Timestamp: time.Now().Unix(),
		Channels: []Channel{
			{Name: "sin", Color: "#ffff00", YUnit: "V", Interval: interval, Values: sine},
			{Name: "sq", Color: "#ff00ff", YUnit: "V", Interval: interval, Values: square},
			{
				Name:            "strobe",
				Color:           "#00ff00",
				YUnit:           "counts",
				NoInterpolation: true,
				Offsets:         offsets,
				Durations:       durations,
				Values:          strobe,
			},
		},
	}
}
