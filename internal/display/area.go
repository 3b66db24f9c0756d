package display

import (
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/gpu"
	"github.com/akowalsk/scopeview/pkg/group"
	"github.com/akowalsk/scopeview/pkg/prefs"
	"github.com/akowalsk/scopeview/pkg/view"
	"github.com/akowalsk/scopeview/pkg/waveform"
)

type yRange struct {
	lo, hi float64
}

// waveArea displays one or more channel streams. Rasterization and tone
// mapping run as recorded GPU ops on the device worker, writing into
// CPU-side buffers under the mutex; Render uploads the tone-mapped
// pixels into an ebiten texture on the render goroutine and composites
// it. The texture is freed in Release, which the group only calls after
// a device idle barrier, so no recorded op can still write the buffers
// the texture was uploaded from.
type waveArea struct {
	host      *Host
	timestamp int64
	streams   []waveform.Stream
	colors    []draw.Color
	ranges    []yRange

	persist  bool
	closing  bool
	released bool

	mu      sync.Mutex
	w, h    int
	density [][]float32
	pix     []byte
	dirty   bool

	tex *ebiten.Image
}

func newWaveArea(host *Host, timestamp int64, streams []waveform.Stream) *waveArea {
	a := &waveArea{
		host:      host,
		timestamp: timestamp,
		streams:   streams,
		colors:    make([]draw.Color, len(streams)),
		ranges:    make([]yRange, len(streams)),
	}
	for i, s := range streams {
		a.colors[i] = prefs.ParseColor(s.Color)
		a.ranges[i] = valueRange(s)
	}
	return a
}

func valueRange(s waveform.Stream) yRange {
	r := yRange{lo: math.Inf(1), hi: math.Inf(-1)}
	if s.Data == nil {
		return yRange{lo: 0, hi: 1}
	}
	for i := 0; i < s.Data.Len(); i++ {
		v := s.Data.Value(i)
		r.lo = math.Min(r.lo, v)
		r.hi = math.Max(r.hi, v)
	}
	if !(r.hi > r.lo) {
		// Flat or empty data still needs a usable vertical scale.
		r.lo, r.hi = r.lo-0.5, r.lo+0.5
	}
	return r
}

// requestClose asks the group to retire this area on its next render.
func (a *waveArea) requestClose() { a.closing = true }

// setPersist toggles persistence accumulation for this area.
func (a *waveArea) setPersist(on bool) { a.persist = on }

// =============================================================================
// group.Area implementation
// =============================================================================

func (a *waveArea) Render(index, total int, region draw.Rect) bool {
	w, h := int(region.W), int(region.H)

	a.mu.Lock()
	if w != a.w || h != a.h {
		a.w, a.h = w, h
		a.density = make([][]float32, len(a.streams))
		for i := range a.density {
			a.density[i] = make([]float32, w*h)
		}
		a.pix = make([]byte, w*h*4)
		a.dirty = false
	}
	if a.dirty && w > 0 && h > 0 {
		if a.tex == nil || a.tex.Bounds().Dx() != w || a.tex.Bounds().Dy() != h {
			if a.tex != nil {
				a.tex.Deallocate()
			}
			a.tex = ebiten.NewImage(w, h)
		}
		a.tex.WritePixels(a.pix)
		a.dirty = false
	}
	a.mu.Unlock()

	if a.tex != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(region.X, region.Y)
		a.host.screen.DrawImage(a.tex, op)
	}

	// Channel legend, stacked top-left in each stream's color.
	font := a.host.font
	for i, s := range a.streams {
		pos := draw.Point{X: region.X + 4, Y: region.Y + 4 + float64(i)*font.Size()}
		a.host.list.Text(font, pos, a.colors[i], s.Name)
	}

	return !a.closing
}

func (a *waveArea) ToneMap(cb gpu.CommandBuffer) {
	cb.Record(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i := range a.pix {
			a.pix[i] = 0
		}
		for si := range a.streams {
			c := a.colors[si]
			d := a.density[si]
			for i, v := range d {
				if v <= 0 {
					continue
				}
				// Saturating intensity ramp; heavily hit cells clip to
				// the full channel color.
				alpha := float64(v) * 0.4
				if alpha > 1 {
					alpha = 1
				}
				j := i * 4
				a.pix[j+0] = satAdd(a.pix[j+0], byte(float64(c.R)*alpha))
				a.pix[j+1] = satAdd(a.pix[j+1], byte(float64(c.G)*alpha))
				a.pix[j+2] = satAdd(a.pix[j+2], byte(float64(c.B)*alpha))
				a.pix[j+3] = satAdd(a.pix[j+3], byte(255*alpha))
			}
		}
		a.dirty = true
	})
}

func satAdd(a, b byte) byte {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return byte(s)
}

func (a *waveArea) RenderWaveforms(cb gpu.CommandBuffer, clearPersistence bool) {
	xform := a.host.group.Transform()
	cb.Record(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.w <= 0 || a.h <= 0 {
			return
		}
		for si, s := range a.streams {
			d := a.density[si]
			if clearPersistence || !a.persist {
				for i := range d {
					d[i] = 0
				}
			}
			a.rasterize(si, s, xform, d)
		}
	})
}

// rasterize samples the stream at every column of the plot and strokes
// vertical runs between neighboring columns into the density grid.
func (a *waveArea) rasterize(si int, s waveform.Stream, xform view.Transform, d []float32) {
	r := a.ranges[si]
	scale := float64(a.h-1) / (r.hi - r.lo)

	prevY := -1
	for x := 0; x < a.w; x++ {
		v, ok := s.ValueAt(xform.ToUnits(float64(x)))
		if !ok {
			prevY = -1
			continue
		}
		y := a.h - 1 - int(math.Round((v-r.lo)*scale))
		if y < 0 {
			y = 0
		}
		if y >= a.h {
			y = a.h - 1
		}

		lo, hi := y, y
		if prevY >= 0 {
			if prevY < lo {
				lo = prevY
			}
			if prevY > hi {
				hi = prevY
			}
		}
		for yy := lo; yy <= hi; yy++ {
			d[yy*a.w+x]++
		}
		prevY = y
	}
}

func (a *waveArea) StreamCount() int { return len(a.streams) }

func (a *waveArea) Stream(i int) waveform.Stream { return a.streams[i] }

func (a *waveArea) ChannelBeingDragged() (waveform.Stream, bool) {
	return waveform.Stream{}, false
}

func (a *waveArea) ClearPersistenceOfChannel(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for si, s := range a.streams {
		if s.Name != name {
			continue
		}
		d := a.density[si]
		for i := range d {
			d[i] = 0
		}
	}
}

func (a *waveArea) WaveformTimestamp() int64 { return a.timestamp }

func (a *waveArea) Release() {
	if a.tex != nil {
		a.tex.Deallocate()
		a.tex = nil
	}
	a.released = true
}

var _ group.Area = (*waveArea)(nil)
