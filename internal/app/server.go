package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/bluewriter/bluewriter/internal/logging"
	"github.com/bluewriter/bluewriter/internal/server"
)

// ErrServerRunning is returned by Start when the server is already up.
var ErrServerRunning = errors.New("server already running")

// ServerHandle owns the HTTP server's lifecycle. It can be started again
// after a shutdown; each start builds a fresh server over the same services.
type ServerHandle struct {
	cfg *server.Config
	svc server.Services

	mu   sync.Mutex
	srv  *server.Server
	addr net.Addr
	done chan error
}

func newServerHandle(cfg *server.Config, svc server.Services) *ServerHandle {
	return &ServerHandle{cfg: cfg, svc: svc}
}

// Start binds the listen address and serves in the background. Bind
// failures are returned here rather than from the serving goroutine.
func (h *ServerHandle) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.srv != nil {
		return ErrServerRunning
	}

	l, err := net.Listen("tcp", h.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", h.cfg.Addr(), err)
	}

	srv := server.New(h.cfg, h.svc)
	done := make(chan error, 1)
	h.srv, h.addr, h.done = srv, l.Addr(), done

	logging.Info().Str("addr", l.Addr().String()).Msg("http server listening")

	go func() {
		err := srv.Serve(l)
		h.mu.Lock()
		if h.srv == srv {
			h.srv = nil
		}
		h.mu.Unlock()
		if err != nil {
			logging.Error().Err(err).Msg("http server stopped")
		}
		done <- err
		close(done)
	}()
	return nil
}

// Shutdown stops the server gracefully and waits for it to exit. It is a
// no-op if the server is not running.
func (h *ServerHandle) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	srv, done := h.srv, h.done
	h.srv = nil
	h.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	logging.Info().Msg("http server stopped")
	return nil
}

// Running reports whether the server is serving.
func (h *ServerHandle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.srv != nil
}

// URL returns the base URL of the last bound address, or the configured
// address if the server was never started.
func (h *ServerHandle) URL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.addr != nil {
		return "http://" + h.addr.String()
	}
	return "http://" + h.cfg.Addr()
}

// Done returns a channel that yields the serve result of the current run.
// It is nil before the first Start.
func (h *ServerHandle) Done() <-chan error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}
