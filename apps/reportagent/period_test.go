package reportagent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/apexhub/storage/postgres"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestPeriodFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		kind      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
		wantReady bool
	}{
		{
			name:      "daily before grace hour",
			kind:      postgres.ReportDaily,
			now:       date(2025, time.March, 12, 0),
			wantStart: date(2025, time.March, 11, 0),
			wantEnd:   date(2025, time.March, 12, 0),
			wantReady: false,
		},
		{
			name:      "daily after grace hour",
			kind:      postgres.ReportDaily,
			now:       date(2025, time.March, 12, 1),
			wantStart: date(2025, time.March, 11, 0),
			wantEnd:   date(2025, time.March, 12, 0),
			wantReady: true,
		},
		{
			// 2025-03-12 is a Wednesday; previous week is Mar 3 to Mar 10.
			name:      "weekly midweek",
			kind:      postgres.ReportWeekly,
			now:       date(2025, time.March, 12, 9),
			wantStart: date(2025, time.March, 3, 0),
			wantEnd:   date(2025, time.March, 10, 0),
			wantReady: true,
		},
		{
			// Monday 00:30 is still inside the weekly grace hour.
			name:      "weekly monday before grace",
			kind:      postgres.ReportWeekly,
			now:       time.Date(2025, time.March, 10, 0, 30, 0, 0, time.UTC),
			wantStart: date(2025, time.March, 3, 0),
			wantEnd:   date(2025, time.March, 10, 0),
			wantReady: false,
		},
		{
			// Sunday maps to weekday 7, so the current week still starts
			// on the previous Monday.
			name:      "weekly on sunday",
			kind:      postgres.ReportWeekly,
			now:       date(2025, time.March, 16, 12),
			wantStart: date(2025, time.March, 3, 0),
			wantEnd:   date(2025, time.March, 10, 0),
			wantReady: true,
		},
		{
			name:      "monthly",
			kind:      postgres.ReportMonthly,
			now:       date(2025, time.March, 12, 9),
			wantStart: date(2025, time.February, 1, 0),
			wantEnd:   date(2025, time.March, 1, 0),
			wantReady: true,
		},
		{
			name:      "monthly first of month before grace",
			kind:      postgres.ReportMonthly,
			now:       time.Date(2025, time.March, 1, 0, 15, 0, 0, time.UTC),
			wantStart: date(2025, time.February, 1, 0),
			wantEnd:   date(2025, time.March, 1, 0),
			wantReady: false,
		},
		{
			name:      "unknown kind",
			kind:      "quarterly",
			now:       date(2025, time.March, 12, 9),
			wantReady: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start, end, ready := periodFor(tt.kind, tt.now)
			assert.Equal(t, tt.wantReady, ready)
			if !tt.wantStart.IsZero() {
				assert.Equal(t, tt.wantStart, start)
				assert.Equal(t, tt.wantEnd, end)
			}
		})
	}
}
