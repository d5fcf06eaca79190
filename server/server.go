// Package server hosts a strata application on an http.Server with
// graceful shutdown, environment based configuration, and optional TLS.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
)

// Server runs an http.Handler with lifecycle management. Construct it with
// New or NewFromConfig; it is safe for concurrent use.
type Server struct {
	mu        sync.Mutex
	cfg       Config
	logger    *slog.Logger
	tlsConfig *tls.Config
	srv       *http.Server
	running   bool
}

// New creates a Server listening on addr with default timeouts.
func New(addr string, opts ...Option) *Server {
	cfg := DefaultConfig()
	cfg.Addr = addr
	return newServer(cfg, opts...)
}

func newServer(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins serving handler and blocks until the context is canceled or
// the listener fails. It returns context.Err() on cancellation; call Stop
// for graceful shutdown.
func (s *Server) Start(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.srv = &http.Server{
		Addr:           s.cfg.Addr,
		Handler:        handler,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: s.cfg.MaxHeaderBytes,
		TLSConfig:      s.tlsConfig,
	}
	srv := s.srv
	s.mu.Unlock()

	failed := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "server listening", "addr", s.cfg.Addr, "tls", srv.TLSConfig != nil)

		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop drains in-flight requests within the configured shutdown timeout.
// It is a no-op when the server is not running.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.srv == nil {
		return nil
	}
	s.running = false

	s.logger.Info("server shutting down", "timeout", s.cfg.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

// Run returns a function suitable for errgroup.Go: it serves handler until
// the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, handler http.Handler) func() error {
	return func() error {
		failed := make(chan error, 1)
		go func() {
			failed <- s.Start(ctx, handler)
		}()

		select {
		case <-ctx.Done():
			err := s.Stop()
			<-failed
			return err
		case err := <-failed:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}
