package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Prospect statuses follow the funnel order used by the lead agent UI.
const (
	ProspectStatusNew       = "new"
	ProspectStatusContacted = "contacted"
	ProspectStatusQualified = "qualified"
	ProspectStatusWon       = "won"
	ProspectStatusLost      = "lost"
)

// Prospect is a lead tracked by a workspace.
type Prospect struct {
	ID           uuid.UUID `json:"id"`
	OrgID        uuid.UUID `json:"org_id"`
	BusinessName string    `json:"business_name"`
	Status       string    `json:"status"`
	ContactNotes string    `json:"contact_notes,omitempty"`
	Insight      string    `json:"insight,omitempty"`
	CreatedBy    uuid.UUID `json:"created_by,omitzero"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidProspectStatus reports whether s is a known funnel status.
func ValidProspectStatus(s string) bool {
	switch s {
	case ProspectStatusNew, ProspectStatusContacted, ProspectStatusQualified,
		ProspectStatusWon, ProspectStatusLost:
		return true
	}
	return false
}

// CreateProspect inserts a lead for a workspace.
func (r *Repository) CreateProspect(ctx context.Context, p Prospect) (*Prospect, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProspectStatusNew
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO prospects (id, org_id, business_name, status, contact_notes, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		p.ID, p.OrgID, p.BusinessName, p.Status, p.ContactNotes, nilIfZero(p.CreatedBy),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create prospect: %w", err)
	}
	return &p, nil
}

// GetProspect returns a lead scoped to its workspace, or (nil, nil).
func (r *Repository) GetProspect(ctx context.Context, orgID, prospectID uuid.UUID) (*Prospect, error) {
	var p Prospect
	var createdBy *uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT id, org_id, business_name, status, contact_notes, insight, created_by, created_at, updated_at
		 FROM prospects WHERE id = $1 AND org_id = $2`,
		prospectID, orgID,
	).Scan(&p.ID, &p.OrgID, &p.BusinessName, &p.Status, &p.ContactNotes, &p.Insight,
		&createdBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get prospect: %w", err)
	}
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return &p, nil
}

// ListProspects returns a workspace's leads, newest first.
func (r *Repository) ListProspects(ctx context.Context, orgID uuid.UUID, limit int) ([]Prospect, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, business_name, status, contact_notes, insight, created_by, created_at, updated_at
		 FROM prospects WHERE org_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		orgID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list prospects: %w", err)
	}
	defer rows.Close()

	var prospects []Prospect
	for rows.Next() {
		var p Prospect
		var createdBy *uuid.UUID
		if err := rows.Scan(&p.ID, &p.OrgID, &p.BusinessName, &p.Status, &p.ContactNotes,
			&p.Insight, &createdBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan prospect: %w", err)
		}
		if createdBy != nil {
			p.CreatedBy = *createdBy
		}
		prospects = append(prospects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list prospects: %w", err)
	}
	return prospects, nil
}

// UpdateProspectStatus moves a lead along the funnel. Returns pgx.ErrNoRows
// when the lead does not exist in the workspace.
func (r *Repository) UpdateProspectStatus(ctx context.Context, orgID, prospectID uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE prospects SET status = $3, updated_at = now()
		 WHERE id = $1 AND org_id = $2`,
		prospectID, orgID, status,
	)
	if err != nil {
		return fmt.Errorf("update prospect status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SaveProspectInsight stores generated insight text on a lead.
func (r *Repository) SaveProspectInsight(ctx context.Context, orgID, prospectID uuid.UUID, insight string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE prospects SET insight = $3, updated_at = now()
		 WHERE id = $1 AND org_id = $2`,
		prospectID, orgID, insight,
	)
	if err != nil {
		return fmt.Errorf("save prospect insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountProspectsInPeriod returns per-status lead counts created in [from, to).
// Feeds report generation.
func (r *Repository) CountProspectsInPeriod(ctx context.Context, orgID uuid.UUID, from, to time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM prospects
		 WHERE org_id = $1 AND created_at >= $2 AND created_at < $3
		 GROUP BY status`,
		orgID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("count prospects: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan prospect count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count prospects: %w", err)
	}
	return counts, nil
}

// nilIfZero maps uuid.Nil to SQL NULL for nullable FK columns.
func nilIfZero(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
