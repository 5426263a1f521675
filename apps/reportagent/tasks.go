package reportagent

import (
	"context"
	"time"

	"github.com/dmitrymomot/apexhub/core/scheduler"
)

// GenerationTask returns the scheduled task that backfills missing reports.
// Hourly is frequent enough: periods close at most once a day and the grace
// hour dominates latency anyway.
func (s *Service) GenerationTask() scheduler.Task {
	return scheduler.Task{
		Name:     "report_generation",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			return s.GenerateMissing(ctx)
		},
	}
}
