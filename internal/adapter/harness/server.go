package harness

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"gameharness/internal/app/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 7483

	acceptRetryDelay = 50 * time.Millisecond
)

var (
	ErrAlreadyStarted = errors.New("harness server already started")
	ErrServerStopped  = errors.New("harness server stopped")
)

type State int

const (
	StateUnstarted State = iota
	StateBinding
	StateListening
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateBinding:
		return "binding"
	case StateListening:
		return "listening"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

type Config struct {
	Host string
	// Port 0 binds an ephemeral port; see Server.Port.
	Port            int
	MaxRequestBytes int
	// ReadTimeout bounds the single read per connection. Zero waits forever.
	ReadTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{Host: DefaultHost, Port: DefaultPort, MaxRequestBytes: MaxRequestBytes}
}

// PortPublisher is told the bound port once the server is listening.
type PortPublisher interface {
	Publish(port int)
}

// Health is a point-in-time view of the server for the ops surface.
type Health struct {
	Game  string `json:"game"`
	Port  int    `json:"port"`
	State string `json:"state"`
}

// Server accepts one request per connection and answers it through the
// Router on the Dispatcher goroutine. A Server is single-use.
type Server struct {
	Config     Config
	Dispatcher *Dispatcher
	Publisher  PortPublisher
	Metrics    ports.RequestMetrics
	Logger     *zap.Logger

	mu             sync.Mutex
	state          State
	port           int
	ln             net.Listener
	reading        map[net.Conn]struct{}
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
	ownsDispatcher bool
}

// Start binds the listener, attaches game and begins accepting in the
// background. A bind failure leaves the server Failed and is returned; the
// caller decides whether to carry on without it.
func (s *Server) Start(ctx context.Context, game ports.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUnstarted:
	case StateStopped:
		return ErrServerStopped
	default:
		return ErrAlreadyStarted
	}
	s.state = StateBinding
	s.normalize()

	addr := net.JoinHostPort(s.Config.Host, strconv.Itoa(s.Config.Port))
	ln, err := listen(ctx, addr)
	if err != nil {
		s.state = StateFailed
		s.Logger.Error("automation server bind failed", zap.String("addr", addr), zap.Error(err))
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	if s.Dispatcher == nil {
		s.Dispatcher = NewDispatcher(s.Logger)
		s.ownsDispatcher = true
	}
	if err := s.Dispatcher.Attach(ctx, game); err != nil {
		_ = ln.Close()
		s.state = StateFailed
		return fmt.Errorf("attach game: %w", err)
	}

	s.ln = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.reading = make(map[net.Conn]struct{})
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.state = StateListening
	s.Logger.Info("automation server listening", zap.String("addr", ln.Addr().String()), zap.Int("port", s.port))

	if s.Publisher != nil {
		s.Publisher.Publish(s.port)
	}

	s.wg.Add(1)
	go s.acceptLoop(ln)
	return nil
}

func (s *Server) normalize() {
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	if s.Config.Host == "" {
		s.Config.Host = DefaultHost
	}
	if s.Config.MaxRequestBytes <= 0 {
		s.Config.MaxRequestBytes = MaxRequestBytes
	}
}

// Stop closes the listener and any connection still waiting for its request,
// waits for requests already being answered, then detaches the game. Stop is
// idempotent.
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.state != StateListening {
		if s.state != StateFailed {
			s.state = StateStopped
		}
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopped
	err := s.ln.Close()
	for conn := range s.reading {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.cancel()

	if derr := s.Dispatcher.Detach(context.Background()); derr != nil && !errors.Is(derr, ErrDispatcherClosed) {
		s.Logger.Warn("detach game failed", zap.Error(derr))
	}
	if s.ownsDispatcher {
		s.Dispatcher.Close()
	}
	s.Logger.Info("automation server stopped", zap.Int("port", s.port))
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Port is the bound port, or 0 before the server is listening.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Health reports listener state and, while listening, the attached game.
func (s *Server) Health(ctx context.Context) (Health, error) {
	s.mu.Lock()
	h := Health{State: s.state.String(), Port: s.port, Game: unknownGameName}
	disp := s.Dispatcher
	listening := s.state == StateListening
	s.mu.Unlock()

	if !listening || disp == nil {
		return h, nil
	}
	err := disp.Do(ctx, func(_ context.Context, game ports.Game) {
		if game != nil {
			h.Game = game.Name()
		}
	})
	return h, err
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.Logger.Warn("accept failed", zap.Error(err))
			time.Sleep(acceptRetryDelay)
			continue
		}
		if !s.track(conn) {
			_ = conn.Close()
			return
		}
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateListening {
		return false
	}
	s.reading[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.reading, conn)
	s.mu.Unlock()
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	logger := s.Logger.With(
		zap.String("conn_id", uuid.NewString()),
		zap.String("remote", conn.RemoteAddr().String()),
	)

	raw, err := s.readRequest(conn)
	s.untrack(conn)
	if len(raw) == 0 {
		logger.Debug("connection closed without request", zap.Error(err))
		return
	}

	router := Router{Port: s.Port, Metrics: s.Metrics}
	var resp map[string]any
	err = s.Dispatcher.Do(s.ctx, func(ctx context.Context, game ports.Game) {
		resp = router.Handle(ctx, game, raw)
	})
	switch {
	case errors.Is(err, ErrTaskPanicked):
		resp = map[string]any{"error": "handler failed"}
	case err != nil:
		logger.Debug("request dropped", zap.Error(err))
		return
	}

	if _, err := conn.Write(EncodeResponse(resp)); err != nil {
		logger.Debug("write response failed", zap.Error(err))
	}
}

// readRequest does one bounded read. Whatever arrived is the request.
func (s *Server) readRequest(conn net.Conn) ([]byte, error) {
	if s.Config.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.Config.ReadTimeout))
	}
	buf := make([]byte, s.Config.MaxRequestBytes)
	n, err := conn.Read(buf)
	return buf[:n], err
}
