package scheduler

import "context"

// TickOnce drives a single tick evaluation from tests without starting the
// real ticker loop, so interval arithmetic can be exercised against a mock
// clock.
func (s *Scheduler) TickOnce(ctx context.Context) {
	s.tickOnce(ctx)
}
