package telnet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/config"
)

// FullMessage is sent to a client refused because MaxSessions is reached.
const FullMessage = "The hearing room is full. Please try again later."

const (
	// farewellGrace is how long Stop lets a session say goodbye before its
	// connection is closed underneath it.
	farewellGrace = 500 * time.Millisecond

	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// nextBackoff doubles the accept retry delay, starting at 5ms and capped at 1s.
func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptBackoff
	}
	return min(2*d, maxAcceptBackoff)
}

// SessionHandler runs one connected client's game.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor listens for Telnet connections and dispatches each one to a
// SessionHandler. It implements server.Service through Start and Stop.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	listener net.Listener
	wg       sync.WaitGroup
	quit     chan struct{}
	mu       sync.Mutex
	running  bool
	active   atomic.Int64
}

// NewAcceptor creates a Telnet acceptor with the given configuration.
//
// Precondition: handler and logger must be non-nil.
// Postcondition: Returns an Acceptor ready to be started.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	if handler == nil || logger == nil {
		panic("telnet.NewAcceptor: handler and logger must not be nil")
	}
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		quit:    make(chan struct{}),
	}
}

// Start implements server.Service.
func (a *Acceptor) Start() error { return a.ListenAndServe() }

// ListenAndServe accepts connections until Stop is called.
//
// Precondition: The acceptor must not already be running.
// Postcondition: The listener is closed when this method returns.
func (a *Acceptor) ListenAndServe() error {
	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}

	a.mu.Lock()
	select {
	case <-a.quit:
		a.mu.Unlock()
		listener.Close()
		return nil
	default:
	}
	a.listener = listener
	a.running = true
	a.mu.Unlock()

	a.logger.Info("telnet acceptor listening",
		zap.String("addr", listener.Addr().String()),
		zap.Int("max_sessions", a.cfg.MaxSessions),
	)

	var backoff time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-a.quit:
				return nil
			default:
			}
			backoff = nextBackoff(backoff)
			a.logger.Error("accepting connection", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-a.quit:
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0

		if limit := a.cfg.MaxSessions; limit > 0 && a.active.Load() >= int64(limit) {
			a.refuse(conn)
			continue
		}

		a.active.Add(1)
		a.wg.Add(1)
		go a.handleConn(conn)
	}
}

func (a *Acceptor) refuse(raw net.Conn) {
	defer raw.Close()
	a.logger.Warn("session limit reached, refusing client",
		zap.String("remote_addr", raw.RemoteAddr().String()),
	)
	conn := NewConn(raw, a.cfg.WriteTimeout)
	_ = conn.WriteLine(FullMessage)
}

func (a *Acceptor) handleConn(raw net.Conn) {
	defer a.wg.Done()
	defer a.active.Add(-1)
	start := time.Now()
	addr := raw.RemoteAddr().String()

	a.logger.Info("client connected", zap.String("remote_addr", addr))

	conn := NewConn(raw, a.cfg.WriteTimeout)
	defer conn.Close()

	if err := conn.Negotiate(); err != nil {
		a.logger.Error("telnet negotiation failed",
			zap.String("remote_addr", addr),
			zap.Error(err),
		)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-a.quit:
			cancel()
			select {
			case <-done:
			case <-time.After(farewellGrace):
				// Unblock a session parked in ReadLine.
				_ = conn.Close()
			}
		case <-done:
		}
	}()

	if err := a.handler.HandleSession(ctx, conn); err != nil {
		a.logger.Debug("session ended",
			zap.String("remote_addr", addr),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}
	a.logger.Info("session ended cleanly",
		zap.String("remote_addr", addr),
		zap.Duration("duration", time.Since(start)),
	)
}

// Stop closes the listener and waits for every session to finish.
//
// Postcondition: All connections are closed and goroutines have exited.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	select {
	case <-a.quit:
		a.mu.Unlock()
		return
	default:
	}
	close(a.quit)
	a.running = false
	if a.listener != nil {
		a.listener.Close()
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.logger.Info("telnet acceptor stopped")
}

// Addr returns the listening address, or "" before the listener is bound.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return ""
}

// IsRunning reports whether the acceptor is accepting connections.
func (a *Acceptor) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// ActiveSessions returns the number of sessions currently being handled.
func (a *Acceptor) ActiveSessions() int {
	return int(a.active.Load())
}
