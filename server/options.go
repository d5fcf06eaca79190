package server

import (
	"crypto/tls"
	"errors"
	"log/slog"
	"time"
)

var (
	// ErrAlreadyRunning is returned by Start on a server that is serving.
	ErrAlreadyRunning = errors.New("server is already running")

	// ErrShutdown wraps graceful shutdown failures.
	ErrShutdown = errors.New("failed to shutdown server gracefully")
)

// Option configures server behavior.
type Option func(*Server)

// WithTLS configures TLS settings for HTTPS.
func WithTLS(config *tls.Config) Option {
	return func(s *Server) {
		s.tlsConfig = config
	}
}

// WithLogger sets a custom logger for server lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownTimeout sets the maximum time to wait for graceful shutdown.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.cfg.ShutdownTimeout = timeout
		}
	}
}
