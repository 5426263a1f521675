package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Default timeouts applied by New when no option overrides them. Read and
// write are kept short because Mini App clients retry aggressively on
// flaky mobile networks and a stuck handler should not pin a connection.
const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
	defaultMaxHeaderBytes  = 1 << 20
)

// Server runs the platform's HTTP listener with graceful shutdown.
// A Server is single-use: once stopped it is not restarted.
type Server struct {
	mu       sync.Mutex
	addr     string
	log      *slog.Logger
	timeouts timeouts
	tlsConf  *tls.Config
	inner    *http.Server
	running  bool
}

type timeouts struct {
	read     time.Duration
	write    time.Duration
	idle     time.Duration
	shutdown time.Duration
	maxHdr   int
}

// New builds a Server listening on addr. Options override the defaults;
// without WithLogger the server stays silent.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr: addr,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeouts: timeouts{
			read:     defaultReadTimeout,
			write:    defaultWriteTimeout,
			idle:     defaultIdleTimeout,
			shutdown: defaultShutdownTimeout,
			maxHdr:   defaultMaxHeaderBytes,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start serves handler until ctx is canceled or the listener fails.
// It returns ctx.Err() on cancellation; pair it with Stop to drain
// in-flight requests.
func (s *Server) Start(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.inner = &http.Server{
		Addr:           s.addr,
		Handler:        handler,
		ReadTimeout:    s.timeouts.read,
		WriteTimeout:   s.timeouts.write,
		IdleTimeout:    s.timeouts.idle,
		MaxHeaderBytes: s.timeouts.maxHdr,
		TLSConfig:      s.tlsConf,
	}
	serveTLS := s.tlsConf != nil
	s.mu.Unlock()

	failed := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "http server listening", "addr", s.addr, "tls", serveTLS)
		var err error
		if serveTLS {
			err = s.inner.ListenAndServeTLS("", "")
		} else {
			err = s.inner.ListenAndServe()
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

// Stop drains in-flight requests within the shutdown timeout.
// Calling Stop on a server that never started is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.inner == nil {
		return nil
	}
	s.log.Info("http server draining", "timeout", s.timeouts.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.shutdown)
	defer cancel()

	err := s.inner.Shutdown(ctx)
	s.running = false
	if err != nil {
		s.log.Error("http server shutdown failed", "error", err)
		return err
	}
	s.log.Info("http server stopped")
	return nil
}

// Run adapts the server to errgroup.Go: the returned function blocks
// until ctx is canceled, then drains and reports nil so a clean
// shutdown does not poison the group.
func (s *Server) Run(ctx context.Context, handler http.Handler) func() error {
	return func() error {
		started := make(chan error, 1)
		go func() {
			started <- s.Start(ctx, handler)
		}()

		select {
		case <-ctx.Done():
			if err := s.Stop(); err != nil {
				s.log.Error("stop after cancellation failed", "error", err)
			}
			<-started
			return nil
		case err := <-started:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}
