package preview

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/phanxgames/armature"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeScene saves a two-joint arm with a translation on the elbow from
// frame 1 to frame 11.
func writeScene(t *testing.T, path string, extra ...string) {
	t.Helper()
	s := armature.NewScene()
	shoulder, err := s.NewJoint("shoulder")
	require.NoError(t, err)
	elbow, err := s.NewJoint("elbow")
	require.NoError(t, err)
	shoulder.AddChild(elbow)
	require.NoError(t, s.SetKeyframe(elbow, 1))
	elbow.Position = armature.Vec3{10, 0, 0}
	require.NoError(t, s.SetKeyframe(elbow, 11))
	for _, name := range extra {
		_, err := s.NewJoint(name)
		require.NoError(t, err)
	}
	require.NoError(t, s.SaveFile(path))
}

type testServer struct {
	*Server
	base   string
	client *http.Client
}

func startServer(t *testing.T, watch bool) *testServer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arm.txt")
	writeScene(t, path)

	srv, err := New(Options{Path: path, FPS: 200, Watch: watch})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	ts := &testServer{
		Server: srv,
		base:   "http://" + ln.Addr().String(),
		client: &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second},
	}
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return ts
}

func (ts *testServer) getJSON(t *testing.T, path string, v any) int {
	t.Helper()
	resp, err := ts.client.Get(ts.base + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func (ts *testServer) post(t *testing.T, path string) armature.PlaybackState {
	t.Helper()
	resp, err := ts.client.Post(ts.base+path, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pb armature.PlaybackState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pb))
	return pb
}

func TestGetScene(t *testing.T) {
	ts := startServer(t, false)

	var snap armature.Snapshot
	require.Equal(t, http.StatusOK, ts.getJSON(t, "/api/v1/scene", &snap))
	require.Len(t, snap.Joints, 2)
	assert.Equal(t, "shoulder", snap.Joints[0].Name)
	assert.Equal(t, 11, snap.Playback.End)
	assert.False(t, snap.Playback.Playing)
}

func TestGetJoint(t *testing.T) {
	ts := startServer(t, false)

	var j armature.JointSnapshot
	require.Equal(t, http.StatusOK, ts.getJSON(t, "/api/v1/joints/elbow", &j))
	assert.Equal(t, "shoulder", j.Parent)
	assert.Len(t, j.Keyframes, 2)

	assert.Equal(t, http.StatusNotFound, ts.getJSON(t, "/api/v1/joints/ghost", &j))
}

func TestSetFrame(t *testing.T) {
	ts := startServer(t, false)

	pb := ts.post(t, "/api/v1/playback/frame/6")
	assert.Equal(t, 6, pb.Frame)

	var j armature.JointSnapshot
	ts.getJSON(t, "/api/v1/joints/elbow", &j)
	assert.InDelta(t, 5.0, j.Pose.Position[0], 1e-9)

	pb = ts.post(t, "/api/v1/playback/frame/999")
	assert.Equal(t, 11, pb.Frame, "frame is clamped to the range")
}

func TestSetFrameRejectsGarbage(t *testing.T) {
	ts := startServer(t, false)
	resp, err := ts.client.Post(ts.base+"/api/v1/playback/frame/abc", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTogglePlays(t *testing.T) {
	ts := startServer(t, false)

	pb := ts.post(t, "/api/v1/playback/toggle")
	require.True(t, pb.Playing)

	assert.Eventually(t, func() bool {
		return ts.Snapshot().Playback.Frame > 1
	}, 2*time.Second, 10*time.Millisecond)

	pb = ts.post(t, "/api/v1/playback/toggle")
	assert.False(t, pb.Playing)
	frame := ts.Snapshot().Playback.Frame
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frame, ts.Snapshot().Playback.Frame, "stopped playback does not advance")
}

func TestWebsocketStream(t *testing.T) {
	ts := startServer(t, false)

	url := "ws" + strings.TrimPrefix(ts.base, "http") + "/ws/playback"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first armature.Snapshot
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, 1, first.Playback.Frame)

	ts.post(t, "/api/v1/playback/frame/4")
	var next armature.Snapshot
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, 4, next.Playback.Frame)
	elbow, ok := next.Joint("elbow")
	require.True(t, ok)
	assert.InDelta(t, 3.0, elbow.Pose.Position[0], 1e-9)
}

func TestCORS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.txt")
	writeScene(t, path)
	srv, err := New(Options{Path: path, AllowOrigin: "http://localhost:5173"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/playback/toggle", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scene", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWatchReloads(t *testing.T) {
	ts := startServer(t, true)
	require.Len(t, ts.Snapshot().Joints, 2)

	// Give the watcher a moment to register before writing.
	time.Sleep(50 * time.Millisecond)
	writeScene(t, ts.opts.Path, "wrist")

	assert.Eventually(t, func() bool {
		return len(ts.Snapshot().Joints) == 3
	}, 3*time.Second, 20*time.Millisecond)
}

func TestNewMissingFile(t *testing.T) {
	_, err := New(Options{Path: filepath.Join(t.TempDir(), "missing.txt")})
	require.Error(t, err)
	assert.True(t, armature.IsUserError(err))
}

func TestCommandAfterStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.txt")
	writeScene(t, path)
	srv, err := New(Options{Path: path})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, srv.Serve(ctx, ln))

	err = srv.Reload(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}
