package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Report kinds by aggregation period.
const (
	ReportDaily   = "daily"
	ReportWeekly  = "weekly"
	ReportMonthly = "monthly"
)

// Report is a generated team activity summary for one period.
type Report struct {
	ID          uuid.UUID `json:"id"`
	OrgID       uuid.UUID `json:"org_id"`
	Kind        string    `json:"kind"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}

// FindReport returns the report for a workspace, kind, and period start, or
// (nil, nil) when it has not been generated yet.
func (r *Repository) FindReport(ctx context.Context, orgID uuid.UUID, kind string, periodStart time.Time) (*Report, error) {
	var rep Report
	err := r.pool.QueryRow(ctx,
		`SELECT id, org_id, kind, period_start, period_end, summary, created_at
		 FROM reports WHERE org_id = $1 AND kind = $2 AND period_start = $3`,
		orgID, kind, periodStart,
	).Scan(&rep.ID, &rep.OrgID, &rep.Kind, &rep.PeriodStart, &rep.PeriodEnd, &rep.Summary, &rep.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &rep, nil
}

// InsertReport stores a generated report. Returns ErrDuplicate when the
// period was already generated, so concurrent generators stay idempotent.
func (r *Repository) InsertReport(ctx context.Context, rep Report) (*Report, error) {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO reports (id, org_id, kind, period_start, period_end, summary)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		rep.ID, rep.OrgID, rep.Kind, rep.PeriodStart, rep.PeriodEnd, rep.Summary,
	).Scan(&rep.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	return &rep, nil
}

// ListReports returns a workspace's reports of one kind, newest first.
func (r *Repository) ListReports(ctx context.Context, orgID uuid.UUID, kind string, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, kind, period_start, period_end, summary, created_at
		 FROM reports WHERE org_id = $1 AND kind = $2
		 ORDER BY period_start DESC
		 LIMIT $3`,
		orgID, kind, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ID, &rep.OrgID, &rep.Kind, &rep.PeriodStart,
			&rep.PeriodEnd, &rep.Summary, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}
