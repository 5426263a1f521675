package scheduler

import (
	"io"
	"log/slog"
	"time"
)

type schedulerOptions struct {
	tick            time.Duration
	jobTimeout      time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

func defaultOptions() *schedulerOptions {
	return &schedulerOptions{
		tick:            10 * time.Second,
		jobTimeout:      0, // No per-job timeout by default
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
		now:             time.Now,
	}
}

// Option configures a Scheduler.
type Option func(*schedulerOptions)

// WithTickInterval sets the tick period driving task evaluation.
func WithTickInterval(tick time.Duration) Option {
	return func(o *schedulerOptions) {
		if tick > 0 {
			o.tick = tick
		}
	}
}

// WithJobTimeout applies a deadline to every job body's context. Zero
// disables the deadline; job bodies that ignore their context still cannot
// be forcibly cancelled.
func WithJobTimeout(timeout time.Duration) Option {
	return func(o *schedulerOptions) {
		if timeout >= 0 {
			o.jobTimeout = timeout
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for in-flight job bodies.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(o *schedulerOptions) {
		if timeout > 0 {
			o.shutdownTimeout = timeout
		}
	}
}

// WithLogger sets the logger for scheduler and task lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *schedulerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock injects the time source used for interval arithmetic. Defaults
// to time.Now; tests use a mock clock to step through tick boundaries
// deterministically.
func WithClock(now func() time.Time) Option {
	return func(o *schedulerOptions) {
		if now != nil {
			o.now = now
		}
	}
}
