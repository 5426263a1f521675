package scheduler

import "errors"

var (
	// ErrDuplicateTask is returned when two task descriptors share a name.
	ErrDuplicateTask = errors.New("task name already registered")
	// ErrInvalidTask is returned for descriptors missing a name, a run
	// function, or a positive interval.
	ErrInvalidTask = errors.New("invalid task descriptor")
	// ErrNoTasks is returned when the scheduler is started with an empty
	// registry.
	ErrNoTasks = errors.New("no tasks registered")
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("scheduler already started")
	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("scheduler not started")
)
