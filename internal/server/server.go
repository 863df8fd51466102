// HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Config holds HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// WriteMargin is the headroom kept between the upstream LLM timeout and the
// server WriteTimeout, so an upstream timeout still reaches the caller as a 500.
const WriteMargin = 5 * time.Second

// DefaultConfig returns default HTTP server configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    150 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// WriteTimeoutFor returns configured, raised to upstream+WriteMargin when
// the handler may block on an upstream call for up to upstream.
func WriteTimeoutFor(configured, upstream time.Duration) time.Duration {
	if floor := upstream + WriteMargin; upstream > 0 && configured < floor {
		return floor
	}
	return configured
}

// Server wraps the HTTP server.
type Server struct {
	config Config
	http   *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server serving handler.
func NewServer(handler http.Handler, config Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	httpServer := &http.Server{
		Addr:         net.JoinHostPort(config.Host, fmt.Sprint(config.Port)),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &Server{
		config: config,
		http:   httpServer,
		logger: logger,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Start starts the HTTP server and blocks until it stops.
// A graceful Shutdown makes Start return nil.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server_listening", "addr", ln.Addr().String())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Run serves until ctx is canceled, then shuts down within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown gracefully shuts down the server, letting in-flight completions finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server_shutdown_started")

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("server_shutdown_complete")
	return nil
}
