// Package scheduler runs condition-gated background tasks on a fixed tick.
// Feature modules declare their jobs in a Registry during startup; the
// Scheduler evaluates every registered task once per tick and dispatches the
// ones that are due.
//
// # Usage
//
//	registry := scheduler.NewRegistry()
//	err := registry.Add(scheduler.Task{
//		Name:     "leadagent:notifications",
//		Interval: time.Minute,
//		Precondition: func(ctx context.Context) (bool, error) {
//			return repo.HasDueNotifications(ctx)
//		},
//		Run: func(ctx context.Context) error {
//			return svc.ProcessDueNotifications(ctx)
//		},
//	})
//
//	sched, err := scheduler.New(registry, scheduler.WithTickInterval(10*time.Second))
//	eg.Go(sched.Run(ctx))
//
// # Semantics
//
//   - A task runs when the time elapsed since its last run reaches its
//     interval. The baseline for a never-run task is scheduler start.
//   - A precondition gates the job body: when it returns false (or fails),
//     the tick skips the task WITHOUT touching last-run, so the cheap check
//     repeats on the next tick. This is what keeps idle cost near zero - the
//     expensive body only runs when there is work.
//   - Last-run is updated when the body is dispatched, regardless of how the
//     body ends. A failing task retries at the next interval boundary: no
//     immediate retry, no backoff, no permanent lock-out.
//   - Job failures (returned errors and panics) are logged with the task
//     name and recorded on the task; they never stop the scheduler loop or
//     affect other tasks.
//   - Task bodies run on their own goroutines, so a slow job never delays
//     evaluation of the other tasks in the same tick. Each task has
//     at-most-one execution in flight: a tick that would re-trigger a
//     still-running task skips it.
//
// Registration is a startup-phase operation; the Registry is not meant for
// concurrent mutation once the scheduler is running.
package scheduler
