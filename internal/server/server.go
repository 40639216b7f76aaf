// Package server wraps the HTTP listener lifecycle around the API router.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/tierkv/tierkv/internal/shared"
)

// Server serves the key-value API over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *shared.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server bound to address once Start is called.
func New(address string, handler http.Handler, logger *shared.Logger) *Server {
	if logger == nil {
		logger = shared.DefaultLogger
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         address,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start listens on the configured address and serves until Shutdown.
// It blocks; a clean shutdown returns nil.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("http server listening on %s", listener.Addr())

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Addr reports the bound address, or "" before Start has bound one.
// With an address like "127.0.0.1:0" this is how callers learn the port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
