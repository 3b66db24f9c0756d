package remote

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/gpu"
	"github.com/akowalsk/scopeview/pkg/group"
	"github.com/akowalsk/scopeview/pkg/session"
	"github.com/akowalsk/scopeview/pkg/unit"
	"github.com/akowalsk/scopeview/pkg/view"
	"github.com/akowalsk/scopeview/pkg/waveform"
)

// testController runs enqueued closures synchronously; there is no
// render loop in these tests.
type testController struct {
	g *group.Group
	s *session.Session
}

func (c *testController) Enqueue(fn func())         { fn() }
func (c *testController) Group() *group.Group       { return c.g }
func (c *testController) Session() *session.Session { return c.s }

type testArea struct {
	streams   []waveform.Stream
	timestamp int64
}

func (a *testArea) Render(index, total int, region draw.Rect) bool   { return true }
func (a *testArea) ToneMap(cb gpu.CommandBuffer)                     {}
func (a *testArea) RenderWaveforms(cb gpu.CommandBuffer, clear bool) {}
func (a *testArea) StreamCount() int                                 { return len(a.streams) }
func (a *testArea) Stream(i int) waveform.Stream                     { return a.streams[i] }
func (a *testArea) ChannelBeingDragged() (waveform.Stream, bool)     { return waveform.Stream{}, false }
func (a *testArea) ClearPersistenceOfChannel(name string)            {}
func (a *testArea) WaveformTimestamp() int64                         { return a.timestamp }
func (a *testArea) Release()                                         {}

func newTestServer() (*Server, *testController) {
	sess := session.New(nil)
	g := group.New("remote-test", sess, gpu.NewNullDevice())
	g.SetTransform(view.Transform{PixelsPerUnit: 0.001})
	g.AddArea(&testArea{
		timestamp: 7,
		streams: []waveform.Stream{{
			Name:  "sin",
			YUnit: unit.Volts,
			Data:  waveform.NewUniform(1000, []float64{0, 1, 2, 3}),
		}},
	})
	ctrl := &testController{g: g, s: sess}
	return New(ctrl, nil), ctrl
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestGetState(t *testing.T) {
	s, ctrl := newTestServer()

	rec := doJSON(t, s, http.MethodGet, "/v1/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, ctrl.s.ID(), state["session_id"])
	assert.Equal(t, "remote-test", state["title"])
	assert.Equal(t, "fs", state["x_unit"])
	assert.Equal(t, "none", state["cursor_mode"])
	assert.EqualValues(t, 1, state["areas"])
}

func TestNavigate(t *testing.T) {
	s, ctrl := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/v1/navigate", navigateRequest{Timestamp: 5_000_000})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// No frame has been rendered, so the plot width is zero and the
	// view centers on the timestamp itself.
	assert.Equal(t, int64(5_000_000), ctrl.g.Transform().OffsetUnits)
}

func TestMarkerLifecycle(t *testing.T) {
	s, _ := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/v1/markers", markerRequest{Name: "trig", Offset: 1234})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created markerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "trig", created.Name)
	assert.Equal(t, int64(1234), created.Offset)
	assert.Equal(t, int64(7), created.Timestamp)

	rec = doJSON(t, s, http.MethodGet, "/v1/markers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []markerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = doJSON(t, s, http.MethodDelete, "/v1/markers/7/0", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/v1/markers/7/0", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkerRejectedOffTimeDomain(t *testing.T) {
	s, ctrl := newTestServer()
	ctrl.g.SetXUnit(unit.Hertz)

	rec := doJSON(t, s, http.MethodPost, "/v1/markers", markerRequest{Offset: 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetCursorsAndReadouts(t *testing.T) {
	s, ctrl := newTestServer()

	pos := [2]int64{500, 1500}
	rec := doJSON(t, s, http.MethodPost, "/v1/cursors", cursorsRequest{Mode: "dual", Positions: &pos})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, group.CursorDual, ctrl.g.CursorMode())
	assert.Equal(t, int64(1000), ctrl.g.CursorDelta())

	rec = doJSON(t, s, http.MethodGet, "/v1/readouts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []group.ReadoutRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "500 mV", rows[0].Value0)
	assert.Equal(t, "1.5 V", rows[0].Value1)
}

func TestInvalidCursorMode(t *testing.T) {
	s, _ := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/v1/cursors", cursorsRequest{Mode: "triple"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestReadoutsEmptyWithoutCursors(t *testing.T) {
	s, _ := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/v1/readouts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestClearPersistence(t *testing.T) {
	s, _ := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/v1/persistence/clear", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
