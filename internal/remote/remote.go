// Package remote exposes a small HTTP API for scripted control of a
// running viewer: reading viewport and cursor state, navigating,
// placing markers, and fetching cursor readouts.
//
// Handlers never touch the engine directly. Every read or mutation is
// queued onto the render goroutine through the Controller and the
// handler blocks for the reply, so the engine keeps its single-owner
// concurrency model. The one exception is clearing persistence, which
// is an atomic flag designed to be set from any goroutine.
package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/akowalsk/scopeview/pkg/errors"
	"github.com/akowalsk/scopeview/pkg/group"
	"github.com/akowalsk/scopeview/pkg/session"
)

// Controller is the surface the API drives. internal/display.Host
// implements it.
type Controller interface {
	// Enqueue runs fn on the render goroutine.
	Enqueue(fn func())

	Group() *group.Group
	Session() *session.Session
}

// Server serves the control API.
type Server struct {
	ctrl   Controller
	logger *charmlog.Logger
	mux    *chi.Mux
}

// New builds the router.
func New(ctrl Controller, logger *charmlog.Logger) *Server {
	if logger == nil {
		logger = charmlog.Default()
	}
	s := &Server{ctrl: ctrl, logger: logger, mux: chi.NewRouter()}

	s.mux.Use(s.logRequests)
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Post("/navigate", s.postNavigate)
		r.Get("/markers", s.getMarkers)
		r.Post("/markers", s.postMarker)
		r.Delete("/markers/{timestamp}/{index}", s.deleteMarker)
		r.Post("/cursors", s.postCursors)
		r.Get("/readouts", s.getReadouts)
		r.Post("/persistence/clear", s.postClearPersistence)
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info("remote control listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(errors.ErrCodeInternal, err, "remote server")
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start).Round(time.Microsecond))
	})
}

// call runs fn on the render goroutine and returns its result.
func call[T any](ctrl Controller, fn func() T) T {
	ch := make(chan T, 1)
	ctrl.Enqueue(func() { ch <- fn() })
	return <-ch
}

// =============================================================================
// Wire types
// =============================================================================

type stateResponse struct {
	SessionID     string   `json:"session_id"`
	Title         string   `json:"title"`
	XUnit         string   `json:"x_unit"`
	OffsetUnits   int64    `json:"offset_units"`
	PixelsPerUnit float64  `json:"pixels_per_unit"`
	Areas         int      `json:"areas"`
	CursorMode    string   `json:"cursor_mode"`
	Cursors       [2]int64 `json:"cursors"`
}

type navigateRequest struct {
	Timestamp int64 `json:"timestamp"`
}

type markerResponse struct {
	Timestamp int64  `json:"timestamp"`
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Offset    int64  `json:"offset"`
}

type markerRequest struct {
	Name   string `json:"name"`
	Offset int64  `json:"offset"`
}

type cursorsRequest struct {
	Mode      string    `json:"mode"`
	Positions *[2]int64 `json:"positions,omitempty"`
}

func cursorModeName(m group.CursorMode) string {
	switch m {
	case group.CursorSingle:
		return "single"
	case group.CursorDual:
		return "dual"
	default:
		return "none"
	}
}

func parseCursorMode(s string) (group.CursorMode, bool) {
	switch s {
	case "none":
		return group.CursorNone, true
	case "single":
		return group.CursorSingle, true
	case "dual":
		return group.CursorDual, true
	}
	return group.CursorNone, false
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	resp := call(s.ctrl, func() stateResponse {
		g := s.ctrl.Group()
		xf := g.Transform()
		return stateResponse{
			SessionID:     s.ctrl.Session().ID(),
			Title:         g.Title(),
			XUnit:         g.XUnit().String(),
			OffsetUnits:   xf.OffsetUnits,
			PixelsPerUnit: xf.PixelsPerUnit,
			Areas:         g.AreaCount(),
			CursorMode:    cursorModeName(g.CursorMode()),
			Cursors:       [2]int64{g.CursorPosition(0), g.CursorPosition(1)},
		}
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) postNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "malformed navigate request"))
		return
	}
	call(s.ctrl, func() struct{} {
		s.ctrl.Group().NavigateToTimestamp(req.Timestamp)
		return struct{}{}
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getMarkers(w http.ResponseWriter, r *http.Request) {
	resp := call(s.ctrl, func() []markerResponse {
		sess := s.ctrl.Session()
		out := []markerResponse{}
		for _, ts := range sess.Timestamps() {
			for i, m := range sess.Markers(ts) {
				out = append(out, markerResponse{Timestamp: ts, Index: i, Name: m.Name, Offset: m.Offset})
			}
		}
		return out
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) postMarker(w http.ResponseWriter, r *http.Request) {
	var req markerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "malformed marker request"))
		return
	}
	type result struct {
		ref session.MarkerRef
		ok  bool
	}
	res := call(s.ctrl, func() result {
		ref, ok := s.ctrl.Group().AddNamedMarkerAt(req.Name, req.Offset)
		return result{ref, ok}
	})
	if !res.ok {
		writeError(w, errors.New(errors.ErrCodeInvalidMarker, "group cannot hold markers"))
		return
	}
	m := call(s.ctrl, func() markerResponse {
		mk, _ := s.ctrl.Session().Marker(res.ref)
		return markerResponse{Timestamp: res.ref.Timestamp, Index: res.ref.Index, Name: mk.Name, Offset: mk.Offset}
	})
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) deleteMarker(w http.ResponseWriter, r *http.Request) {
	ts, err1 := parseInt64(chi.URLParam(r, "timestamp"))
	idx, err2 := parseInt64(chi.URLParam(r, "index"))
	if err1 != nil || err2 != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "malformed marker reference"))
		return
	}
	ref := session.MarkerRef{Timestamp: ts, Index: int(idx)}
	found := call(s.ctrl, func() bool {
		sess := s.ctrl.Session()
		if _, ok := sess.Marker(ref); !ok {
			return false
		}
		sess.RemoveMarker(ref)
		return true
	})
	if !found {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no such marker"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postCursors(w http.ResponseWriter, r *http.Request) {
	var req cursorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "malformed cursors request"))
		return
	}
	mode, ok := parseCursorMode(req.Mode)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown cursor mode %q", req.Mode))
		return
	}
	call(s.ctrl, func() struct{} {
		g := s.ctrl.Group()
		g.SetCursorMode(mode)
		if req.Positions != nil {
			g.SetCursorPosition(0, req.Positions[0])
			g.SetCursorPosition(1, req.Positions[1])
		}
		return struct{}{}
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getReadouts(w http.ResponseWriter, r *http.Request) {
	rows := call(s.ctrl, func() []group.ReadoutRow {
		return s.ctrl.Group().CursorReadouts()
	})
	if rows == nil {
		rows = []group.ReadoutRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) postClearPersistence(w http.ResponseWriter, r *http.Request) {
	// Deliberately not queued: the flag is an atomic that any goroutine
	// may set, consumed once by the next waveform render.
	s.ctrl.Group().ClearPersistence()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMarker:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  string(errors.GetCode(err)),
	})
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
