package scheduler

import (
	"context"
	"sync"
	"time"
)

// Task is the declarative descriptor of a scheduled job, contributed by a
// feature module at startup.
type Task struct {
	// Name uniquely identifies the task. Convention: "<module>:<job>".
	Name string

	// Interval is the minimum time between two runs of the body.
	Interval time.Duration

	// Run is the job body. It may perform I/O and AI calls; the scheduler
	// only observes success or failure.
	Run func(ctx context.Context) error

	// Precondition, when set, is evaluated before the body on every tick the
	// task is due. It must be far cheaper than the body; returning false
	// skips the body without consuming the interval.
	Precondition func(ctx context.Context) (bool, error)
}

func (t Task) validate() bool {
	return t.Name != "" && t.Run != nil && t.Interval > 0
}

// State describes where a task currently is in its run cycle.
type State string

const (
	// StateIdle: waiting for the next interval boundary.
	StateIdle State = "idle"
	// StateChecking: the precondition is being evaluated.
	StateChecking State = "checking"
	// StateRunning: the job body is executing.
	StateRunning State = "running"
	// StateFailed: the last attempt failed; the task rejoins the normal
	// cycle at the next tick.
	StateFailed State = "failed"
)

// Status is a point-in-time view of a registered task, exposed for the admin
// status endpoint.
type Status struct {
	Name      string        `json:"name"`
	Interval  time.Duration `json:"interval"`
	State     State         `json:"state"`
	LastRun   time.Time     `json:"last_run,omitzero"`
	LastError string        `json:"last_error,omitempty"`
}

// taskState is the scheduler-owned mutable bookkeeping for one task.
type taskState struct {
	task Task

	mu      sync.Mutex
	state   State
	lastRun time.Time
	lastErr error
}

func (ts *taskState) status() Status {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	s := Status{
		Name:     ts.task.Name,
		Interval: ts.task.Interval,
		State:    ts.state,
		LastRun:  ts.lastRun,
	}
	if ts.lastErr != nil {
		s.LastError = ts.lastErr.Error()
	}
	return s
}
