package display

import (
	"errors"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/akowalsk/scopeview/pkg/capture"
	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/group"
	"github.com/akowalsk/scopeview/pkg/session"
	"github.com/akowalsk/scopeview/pkg/waveform"
)

// Config controls the window.
type Config struct {
	Title  string
	Width  int
	Height int
}

var background = draw.Color{R: 16, G: 16, B: 20, A: 255}

// Host runs one waveform group in an ebiten window.
//
// All engine state is confined to the game loop goroutine. Other
// goroutines (the remote-control API) mutate it by queueing closures
// with Enqueue, which Update drains at the top of every tick.
type Host struct {
	cfg    Config
	logger *charmlog.Logger

	sess   *session.Session
	group  *group.Group
	device *Device
	areas  []*waveArea

	input *inputAdapter
	font  *bitmapFont

	// set for the duration of Draw
	screen *ebiten.Image
	list   *screenList

	winW, winH int
	calls      chan func()
	persist    bool
	quit       bool
}

// New builds a host displaying one area per channel of the capture.
func New(cfg Config, sess *session.Session, cap *capture.Capture, logger *charmlog.Logger) *Host {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 800
	}
	if cfg.Title == "" {
		cfg.Title = cap.Name
	}
	if logger == nil {
		logger = charmlog.Default()
	}

	h := &Host{
		cfg:    cfg,
		logger: logger,
		sess:   sess,
		device: NewDevice(),
		input:  newInputAdapter(),
		font:   newBitmapFont(),
		winW:   cfg.Width,
		winH:   cfg.Height,
		calls:  make(chan func(), 64),
	}
	h.group = group.New(cfg.Title, sess, h.device)

	for _, s := range cap.Streams() {
		a := newWaveArea(h, cap.Timestamp, []waveform.Stream{s})
		h.areas = append(h.areas, a)
		h.group.AddArea(a)
	}

	h.fitCapture(cap)
	return h
}

// fitCapture scales the viewport to the capture's full extent before
// the first frame.
func (h *Host) fitCapture(cap *capture.Capture) {
	var lo, hi int64
	any := false
	for _, s := range cap.Streams() {
		if s.Data == nil {
			continue
		}
		start, end, ok := s.Data.Bounds()
		if !ok {
			continue
		}
		if !any || start < lo {
			lo = start
		}
		if !any || end > hi {
			hi = end
		}
		any = true
	}
	if !any || hi-lo <= 0 {
		return
	}
	xf := h.group.Transform()
	xf.OffsetUnits = lo
	xf.PixelsPerUnit = float64(h.cfg.Width) / float64(hi-lo)
	h.group.SetTransform(xf)
}

// Group returns the hosted waveform group.
func (h *Host) Group() *group.Group { return h.group }

// Session returns the session shared with the group.
func (h *Host) Session() *session.Session { return h.sess }

// Enqueue schedules fn on the game loop goroutine. Safe to call from
// any goroutine; fn runs at the start of the next Update tick.
func (h *Host) Enqueue(fn func()) {
	h.calls <- fn
}

// Run opens the window and blocks until it closes.
func (h *Host) Run() error {
	defer h.device.Close()

	ebiten.SetWindowTitle(h.cfg.Title)
	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(h); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// =============================================================================
// ebiten.Game
// =============================================================================

func (h *Host) Update() error {
	for {
		select {
		case fn := <-h.calls:
			fn()
			continue
		default:
		}
		break
	}

	// Drop areas the group has already reaped so the pointer-to-area
	// mapping below stays aligned with the group's layout.
	live := h.areas[:0]
	for _, a := range h.areas {
		if !a.released {
			live = append(live, a)
		}
	}
	h.areas = live

	h.input.poll()
	h.handleKeys()
	if h.quit {
		return ebiten.Termination
	}

	// Record this tick's waveform work and hand it to the device.
	cb := h.device.Begin()
	h.group.RenderWaveformTextures(cb, false)
	h.group.ToneMapAll(cb)
	h.device.Submit(cb)
	return nil
}

func (h *Host) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		h.quit = true

	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		h.cycleCursorMode()

	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		t := h.group.Transform().ToUnits(h.input.pos.X)
		if ref, ok := h.group.AddMarkerAt(t); ok {
			m, _ := h.sess.Marker(ref)
			h.logger.Debug("added marker", "name", m.Name, "offset", m.Offset)
		}

	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		h.persist = !h.persist
		for _, a := range h.areas {
			a.setPersist(h.persist)
		}
		if !h.persist {
			h.group.ClearPersistence()
		}
		h.logger.Debug("persistence", "enabled", h.persist)

	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		if a := h.areaUnderPointer(); a != nil {
			a.requestClose()
		}
	}
}

func (h *Host) cycleCursorMode() {
	switch h.group.CursorMode() {
	case group.CursorNone:
		h.group.SetCursorMode(group.CursorSingle)
	case group.CursorSingle:
		h.group.SetCursorMode(group.CursorDual)
	default:
		h.group.SetCursorMode(group.CursorNone)
	}
}

// areaUnderPointer mirrors the group's stacking layout to find which
// area the pointer is over.
func (h *Host) areaUnderPointer() *waveArea {
	live := h.group.AreaCount()
	if live == 0 {
		return nil
	}
	top := 2.5 * h.font.Size()
	y := h.input.pos.Y - top
	if y < 0 {
		return nil
	}
	idx := int(y / ((float64(h.winH) - top) / float64(live)))
	if idx < 0 || idx >= len(h.areas) {
		return nil
	}
	return h.areas[idx]
}

func (h *Host) Draw(screen *ebiten.Image) {
	h.screen = screen
	h.list = &screenList{dst: screen, font: h.font}

	screen.Fill(rgba(background))

	open := h.group.Render(group.Frame{
		List:    h.list,
		Input:   h.input,
		Font:    h.font,
		Region:  draw.Rect{W: float64(h.winW), H: float64(h.winH)},
		Hovered: true,
	})
	if !open {
		h.quit = true
	}

	h.drawReadouts()
	h.input.apply()
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.winW, h.winH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
