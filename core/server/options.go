package server

import (
	"crypto/tls"
	"log/slog"
	"time"
)

// Option tweaks a Server during construction.
type Option func(*Server)

// WithLogger routes lifecycle events to log.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithTLS makes the server terminate TLS with the given config.
func WithTLS(conf *tls.Config) Option {
	return func(s *Server) { s.tlsConf = conf }
}

// WithReadTimeout bounds how long a request may take to arrive in full.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeouts.read = d }
}

// WithWriteTimeout bounds how long a handler may take to respond.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeouts.write = d }
}

// WithIdleTimeout bounds how long a keep-alive connection may sit unused.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeouts.idle = d }
}

// WithShutdownTimeout bounds how long Stop waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeouts.shutdown = d }
}

// WithMaxHeaderBytes caps the size of request headers.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) { s.timeouts.maxHdr = n }
}
