package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler drives the registered tasks with a fixed-period tick. One tick
// fully evaluates every task before the next tick begins; due job bodies are
// dispatched onto their own goroutines.
type Scheduler struct {
	registry *Registry

	tick            time.Duration
	jobTimeout      time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	now             func() time.Time

	// State management
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	running  atomic.Bool
	stopping atomic.Bool
	wg       sync.WaitGroup

	// Observability metrics
	ticks         atomic.Int64
	jobsRun       atomic.Int64
	jobsFailed    atomic.Int64
	jobsInFlight  atomic.Int32
	checksSkipped atomic.Int64
}

// Stats provides observability metrics for monitoring and debugging.
type Stats struct {
	Ticks         int64 // Total number of completed tick evaluations
	JobsRun       int64 // Total number of dispatched job bodies
	JobsFailed    int64 // Total number of job bodies that returned an error or panicked
	JobsInFlight  int32 // Number of job bodies currently executing
	ChecksSkipped int64 // Number of times a false precondition skipped a due task
	IsRunning     bool  // Whether the scheduler loop is currently running
}

// New creates a Scheduler over the given registry.
func New(registry *Registry, opts ...Option) (*Scheduler, error) {
	if registry == nil {
		return nil, errors.New("scheduler: registry is required")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Scheduler{
		registry:        registry,
		tick:            options.tick,
		jobTimeout:      options.jobTimeout,
		shutdownTimeout: options.shutdownTimeout,
		logger:          options.logger,
		now:             options.now,
	}, nil
}

// Start begins the tick loop. This is a blocking operation that runs until
// the context is cancelled. Use Run() for errgroup pattern or call this in a
// goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if s.registry.Len() == 0 {
		s.mu.Unlock()
		return ErrNoTasks
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.running.Store(true)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.logger.InfoContext(s.ctx, "scheduler started",
		slog.Int("task_count", s.registry.Len()),
		slog.Duration("tick_interval", s.tick))

	// The first evaluation anchors every never-run task to "now", so a task
	// with interval N first fires N after startup, not immediately.
	s.tickOnce(s.ctx)

	for {
		select {
		case <-s.ctx.Done():
			s.logger.InfoContext(context.Background(), "scheduler stopping")
			s.running.Store(false)
			return s.ctx.Err()
		case <-ticker.C:
			s.tickOnce(s.ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler, waiting up to the shutdown
// timeout for in-flight job bodies to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return ErrNotStarted
	}
	cancel := s.cancel
	s.cancel = nil
	// Mark stopping under the mutex so no dispatch can add to the WaitGroup
	// after Wait begins.
	s.stopping.Store(true)
	s.mu.Unlock()

	s.running.Store(false)
	cancel()

	s.logger.Info("scheduler stopping, waiting for in-flight jobs",
		slog.Duration("timeout", s.shutdownTimeout))

	ctx, ctxCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped cleanly")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler shutdown timeout exceeded - some jobs may be abandoned",
			slog.Duration("timeout", s.shutdownTimeout))
		return fmt.Errorf("shutdown timeout exceeded after %s", s.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
func (s *Scheduler) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- s.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = s.Stop() // Ignore stop error in normal shutdown
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Snapshot returns the current status of every registered task.
func (s *Scheduler) Snapshot() []Status {
	states := s.registry.snapshot()
	out := make([]Status, len(states))
	for i, ts := range states {
		out[i] = ts.status()
	}
	return out
}

// GetStats returns current observability metrics.
func (s *Scheduler) GetStats() Stats {
	return Stats{
		Ticks:         s.ticks.Load(),
		JobsRun:       s.jobsRun.Load(),
		JobsFailed:    s.jobsFailed.Load(),
		JobsInFlight:  s.jobsInFlight.Load(),
		ChecksSkipped: s.checksSkipped.Load(),
		IsRunning:     s.running.Load(),
	}
}

// tickOnce evaluates every registered task exactly once.
func (s *Scheduler) tickOnce(ctx context.Context) {
	now := s.now()

	for _, ts := range s.registry.snapshot() {
		s.evaluate(ctx, ts, now)
	}

	s.ticks.Add(1)
}

// evaluate decides whether one task is due and dispatches its body if so.
func (s *Scheduler) evaluate(ctx context.Context, ts *taskState, now time.Time) {
	ts.mu.Lock()

	if ts.state == StateRunning || ts.state == StateChecking {
		// At-most-one in-flight execution per task.
		ts.mu.Unlock()
		return
	}

	if ts.lastRun.IsZero() {
		// Anchor: the first evaluation is the interval baseline.
		ts.lastRun = now
		ts.state = StateIdle
		ts.mu.Unlock()
		return
	}

	if now.Sub(ts.lastRun) < ts.task.Interval {
		ts.state = StateIdle
		ts.mu.Unlock()
		return
	}

	if ts.task.Precondition != nil {
		ts.state = StateChecking
		ts.mu.Unlock()

		ok, err := ts.task.Precondition(ctx)

		ts.mu.Lock()
		if err != nil {
			// A failing precondition is treated as "not ready"; last-run is
			// untouched so the check repeats next tick.
			s.logger.WarnContext(ctx, "task precondition failed",
				slog.String("task", ts.task.Name),
				slog.String("error", err.Error()))
			ts.state = StateIdle
			ts.mu.Unlock()
			return
		}
		if !ok {
			s.checksSkipped.Add(1)
			ts.state = StateIdle
			ts.mu.Unlock()
			return
		}
	}

	// Last-run is stamped at dispatch rather than completion, so the
	// interval measures start-to-start and a slow job cannot drift its
	// own schedule. The single-flight state check above keeps a still
	// running job from being dispatched again either way.
	ts.state = StateRunning
	ts.lastRun = now
	ts.mu.Unlock()

	s.dispatch(ts)
}

// dispatch runs the task body on its own goroutine so a slow job never
// blocks evaluation of other tasks.
func (s *Scheduler) dispatch(ts *taskState) {
	s.mu.Lock()
	if s.stopping.Load() {
		s.mu.Unlock()
		ts.mu.Lock()
		ts.state = StateIdle
		ts.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.jobsRun.Add(1)
	s.jobsInFlight.Add(1)

	go func() {
		defer s.wg.Done()
		defer s.jobsInFlight.Add(-1)

		// Jobs detach from the loop context: there is no mid-job
		// cancellation, only the optional per-job timeout.
		ctx := context.Background()
		if s.jobTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
			defer cancel()
		}

		start := s.now()
		err := s.runBody(ctx, ts.task)
		elapsed := s.now().Sub(start)

		ts.mu.Lock()
		ts.lastErr = err
		if err != nil {
			ts.state = StateFailed
		} else {
			ts.state = StateIdle
		}
		ts.mu.Unlock()

		if err != nil {
			s.jobsFailed.Add(1)
			s.logger.Error("task failed",
				slog.String("task", ts.task.Name),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()))
			return
		}

		s.logger.Info("task completed",
			slog.String("task", ts.task.Name),
			slog.Duration("elapsed", elapsed))
	}()
}

// runBody invokes the job body, converting panics into errors so a broken
// job can never take the scheduler down.
func (s *Scheduler) runBody(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Run(ctx)
}
