package reportagent

import (
	"time"

	"github.com/dmitrymomot/apexhub/storage/postgres"
)

// graceHours is how long after a period closes before its report is
// generated, leaving room for late writes.
const graceHours = 1

// periodFor returns the previous complete period of the given kind relative
// to now, and whether its grace window has passed. All boundaries are UTC.
func periodFor(kind string, now time.Time) (start, end time.Time, ready bool) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch kind {
	case postgres.ReportDaily:
		start = today.AddDate(0, 0, -1)
		end = today
	case postgres.ReportWeekly:
		// Weeks start on Monday.
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		thisMonday := today.AddDate(0, 0, -(weekday - 1))
		start = thisMonday.AddDate(0, 0, -7)
		end = thisMonday
	case postgres.ReportMonthly:
		thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = thisMonth.AddDate(0, -1, 0)
		end = thisMonth
	default:
		return time.Time{}, time.Time{}, false
	}

	ready = !now.Before(end.Add(graceHours * time.Hour))
	return start, end, ready
}
