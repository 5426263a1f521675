package scheduler

import (
	"fmt"
	"sync"
)

// Registry aggregates task descriptors contributed by independent feature
// modules into the flat list the scheduler iterates. Populate it during the
// single-threaded startup phase, before the scheduler starts.
type Registry struct {
	mu    sync.Mutex
	tasks []*taskState
	names map[string]struct{}
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Add registers a task. It fails with ErrDuplicateTask when the name is
// already taken and ErrInvalidTask for incomplete descriptors. Both are
// startup configuration errors: abort process start on either.
func (r *Registry) Add(task Task) error {
	if !task.validate() {
		return fmt.Errorf("%w: name=%q interval=%s run=%t",
			ErrInvalidTask, task.Name, task.Interval, task.Run != nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[task.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, task.Name)
	}
	r.names[task.Name] = struct{}{}
	r.tasks = append(r.tasks, &taskState{task: task, state: StateIdle})

	return nil
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// snapshot returns the task list in registration order.
func (r *Registry) snapshot() []*taskState {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*taskState, len(r.tasks))
	copy(out, r.tasks)
	return out
}
