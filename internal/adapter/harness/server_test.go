package harness

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"gameharness/internal/app/ports"
	"gameharness/internal/app/tapgame"
	"gameharness/internal/domain/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu    sync.Mutex
	ports []int
}

func (p *recordingPublisher) Publish(port int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ports = append(p.ports, port)
}

func startServer(t *testing.T, game ports.Game) *Server {
	t.Helper()
	srv := &Server{Config: Config{Host: "127.0.0.1", Port: 0, ReadTimeout: 2 * time.Second}}
	require.NoError(t, srv.Start(context.Background(), game))
	t.Cleanup(func() { _ = srv.Stop() })
	return srv
}

func addrOf(srv *Server) string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(srv.Port()))
}

// exchange sends raw and returns the decoded body, checking the framing.
func exchange(t *testing.T, addr, raw string) map[string]any {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(3*time.Second)))

	_, err = io.WriteString(conn, raw)
	require.NoError(t, err)
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)

	head, body, ok := strings.Cut(string(resp), "\r\n\r\n")
	require.True(t, ok)
	require.True(t, strings.HasPrefix(head, "HTTP/1.1 200 OK\r\n"))
	require.Contains(t, head, "Content-Length: "+strconv.Itoa(len(body)))

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestServer_TapChangesStateByExactlyOneInteraction(t *testing.T) {
	srv := startServer(t, tapgame.New(scene.DefaultSize, nil, nil))
	addr := addrOf(srv)

	before := exchange(t, addr, "GET /state HTTP/1.1\r\n\r\n")
	assert.Equal(t, 0.0, before["state"].(map[string]any)["score"])

	got := exchange(t, addr, "POST /tap HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{\"x\":200,\"y\":400}")
	assert.Equal(t, true, got["handled"])
	assert.Equal(t, map[string]any{"x": 200.0, "y": 400.0}, got["tap"])
	st := got["state"].(map[string]any)
	assert.Equal(t, 1.0, st["score"])
	assert.Equal(t, 1.0, st["pointsPerTap"])

	after := exchange(t, addr, "GET /state HTTP/1.1\r\n\r\n")
	assert.Equal(t, st, after["state"])
}

func TestServer_PingReportsGameAndPort(t *testing.T) {
	srv := startServer(t, tapgame.New(scene.DefaultSize, nil, nil))
	got := exchange(t, addrOf(srv), "GET /ping HTTP/1.1\r\n\r\n")
	assert.Equal(t, map[string]any{"status": "ok", "game": "LandscapeTapper", "port": float64(srv.Port())}, got)
}

func TestServer_NoGameAttached(t *testing.T) {
	srv := startServer(t, nil)
	addr := addrOf(srv)
	assert.Equal(t, "unknown", exchange(t, addr, "GET /ping HTTP/1.1\r\n\r\n")["game"])
	assert.Equal(t, map[string]any{"error": "no game connected"}, exchange(t, addr, "GET /state HTTP/1.1\r\n\r\n"))
}

func TestServer_UnknownActionThroughTheWire(t *testing.T) {
	srv := startServer(t, tapgame.New(scene.DefaultSize, nil, nil))
	got := exchange(t, addrOf(srv), "POST /action HTTP/1.1\r\n\r\n{\"name\":\"bogus\",\"parameters\":{}}")
	assert.Equal(t, "bogus", got["action"])
	assert.Equal(t, map[string]any{"error": "unknown action: bogus"}, got["result"])
	assert.Contains(t, got, "state")
}

func TestServer_EmptyConnectionGetsNoResponse(t *testing.T) {
	srv := startServer(t, nil)
	conn, err := net.Dial("tcp", addrOf(srv))
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Empty(t, resp)

	// The server keeps serving afterwards.
	assert.Equal(t, "ok", exchange(t, addrOf(srv), "GET /ping HTTP/1.1\r\n\r\n")["status"])
}

type panickyGame struct{ fakeGame }

func (g *panickyGame) QueryState(context.Context) map[string]any { panic("broken scene") }

func TestServer_HandlerPanicYieldsErrorBody(t *testing.T) {
	srv := startServer(t, &panickyGame{})
	addr := addrOf(srv)
	assert.Equal(t, map[string]any{"error": "handler failed"}, exchange(t, addr, "GET /state HTTP/1.1\r\n\r\n"))
	assert.Equal(t, "Fake", exchange(t, addr, "GET /ping HTTP/1.1\r\n\r\n")["game"])
}

func TestServer_ConcurrentClientsAreSerialized(t *testing.T) {
	srv := startServer(t, tapgame.New(scene.DefaultSize, nil, nil))
	addr := addrOf(srv)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := net.Dial("tcp", addr)
			if !assert.NoError(t, err) {
				return
			}
			defer conn.Close()
			_, err = io.WriteString(conn, "POST /tap HTTP/1.1\r\n\r\n{\"x\":200,\"y\":400}")
			assert.NoError(t, err)
			_, err = io.ReadAll(conn)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	got := exchange(t, addr, "GET /state HTTP/1.1\r\n\r\n")
	assert.Equal(t, 20.0, got["state"].(map[string]any)["score"])
}

func TestServer_Lifecycle(t *testing.T) {
	pub := &recordingPublisher{}
	srv := &Server{Config: Config{Port: 0}, Publisher: pub}
	assert.Equal(t, StateUnstarted, srv.State())

	require.NoError(t, srv.Start(context.Background(), &fakeGame{}))
	assert.Equal(t, StateListening, srv.State())
	assert.NotZero(t, srv.Port())
	assert.Equal(t, []int{srv.Port()}, pub.ports)
	assert.ErrorIs(t, srv.Start(context.Background(), nil), ErrAlreadyStarted)

	h, err := srv.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Health{Game: "Fake", Port: srv.Port(), State: "listening"}, h)

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
	assert.Equal(t, StateStopped, srv.State())
	assert.ErrorIs(t, srv.Start(context.Background(), nil), ErrServerStopped)

	_, err = net.DialTimeout("tcp", addrOf(srv), 200*time.Millisecond)
	assert.Error(t, err)
}

func TestServer_StopClosesIdleConnections(t *testing.T) {
	srv := &Server{Config: Config{Port: 0}}
	require.NoError(t, srv.Start(context.Background(), nil))

	conn, err := net.Dial("tcp", addrOf(srv))
	require.NoError(t, err)
	defer conn.Close()

	done := make(chan error, 1)
	go func() { done <- srv.Stop() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Stop blocked on an idle connection")
	}
}

func TestServer_BindFailureLeavesServerFailed(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()
	port := occupied.Addr().(*net.TCPAddr).Port

	srv := &Server{Config: Config{Host: "127.0.0.1", Port: port}}
	err = srv.Start(context.Background(), &fakeGame{})
	require.Error(t, err)
	assert.Equal(t, StateFailed, srv.State())
	assert.ErrorIs(t, srv.Start(context.Background(), nil), ErrAlreadyStarted)
	assert.NoError(t, srv.Stop())
	assert.Equal(t, StateFailed, srv.State())
}
