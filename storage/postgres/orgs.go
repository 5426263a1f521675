package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/apexhub/core/authz"
	"github.com/dmitrymomot/apexhub/pkg/randomname"
)

// Org is a workspace shared by a team of Telegram users.
type Org struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Plan       string    `json:"plan"`
	InviteCode string    `json:"invite_code"`
	Email      string    `json:"contact_email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Member is a membership row joined with its account profile.
type Member struct {
	Account authz.Account `json:"account"`
	Role    authz.Role    `json:"role"`
	Joined  time.Time     `json:"joined"`
}

// CreateOrg creates a workspace and makes the creator its admin.
func (r *Repository) CreateOrg(ctx context.Context, name string, creator uuid.UUID) (*Org, error) {
	// Readable codes survive being typed from a shared screenshot; the
	// hex suffix plus the unique index keeps collisions out.
	org := Org{
		ID:         uuid.New(),
		Name:       name,
		Plan:       "free",
		InviteCode: randomname.WithSuffix(),
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("create org: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO orgs (id, name, plan, invite_code)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		org.ID, org.Name, org.Plan, org.InviteCode,
	).Scan(&org.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create org: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO memberships (account_id, org_id, role) VALUES ($1, $2, $3)`,
		creator, org.ID, authz.RoleAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("create org admin membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("create org: %w", err)
	}
	return &org, nil
}

// GetOrg returns a workspace by ID, or (nil, nil) when it does not exist.
func (r *Repository) GetOrg(ctx context.Context, orgID uuid.UUID) (*Org, error) {
	var org Org
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, plan, invite_code, contact_email, created_at FROM orgs WHERE id = $1`,
		orgID,
	).Scan(&org.ID, &org.Name, &org.Plan, &org.InviteCode, &org.Email, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get org: %w", err)
	}
	return &org, nil
}

// GetOrgByInviteCode resolves an invite code to its workspace, or (nil, nil).
func (r *Repository) GetOrgByInviteCode(ctx context.Context, code string) (*Org, error) {
	var org Org
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, plan, invite_code, contact_email, created_at FROM orgs WHERE invite_code = $1`,
		code,
	).Scan(&org.ID, &org.Name, &org.Plan, &org.InviteCode, &org.Email, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get org by invite code: %w", err)
	}
	return &org, nil
}

// FindMembership returns the membership row linking an account to a
// workspace, or (nil, nil) when the account is not a member.
func (r *Repository) FindMembership(ctx context.Context, accountID, orgID uuid.UUID) (*authz.Membership, error) {
	var m authz.Membership
	err := r.pool.QueryRow(ctx,
		`SELECT account_id, org_id, role FROM memberships
		 WHERE account_id = $1 AND org_id = $2`,
		accountID, orgID,
	).Scan(&m.AccountID, &m.OrgID, &m.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return &m, nil
}

// AddMember adds an account to a workspace with the given role.
// Returns ErrDuplicate when the account is already a member.
func (r *Repository) AddMember(ctx context.Context, accountID, orgID uuid.UUID, role authz.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO memberships (account_id, org_id, role) VALUES ($1, $2, $3)`,
		accountID, orgID, role,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// UpdateMemberRole changes a member's role. Returns pgx.ErrNoRows when no
// such membership exists.
func (r *Repository) UpdateMemberRole(ctx context.Context, accountID, orgID uuid.UUID, role authz.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE memberships SET role = $3 WHERE account_id = $1 AND org_id = $2`,
		accountID, orgID, role,
	)
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// RemoveMember deletes a membership. Removing a non-member is a no-op.
func (r *Repository) RemoveMember(ctx context.Context, accountID, orgID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM memberships WHERE account_id = $1 AND org_id = $2`,
		accountID, orgID,
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

// ListMembers returns all members of a workspace with their profiles,
// admins first, then by join time.
func (r *Repository) ListMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.telegram_id, a.full_name, a.username, a.photo_url, m.role, m.created_at
		 FROM memberships m
		 JOIN accounts a ON a.id = m.account_id
		 WHERE m.org_id = $1
		 ORDER BY m.role = 'admin' DESC, m.created_at`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(
			&m.Account.ID, &m.Account.TelegramID, &m.Account.FullName,
			&m.Account.Username, &m.Account.PhotoURL, &m.Role, &m.Joined,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// ListOrgs returns all workspaces, oldest first.
func (r *Repository) ListOrgs(ctx context.Context) ([]Org, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, plan, invite_code, contact_email, created_at FROM orgs ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list orgs: %w", err)
	}
	defer rows.Close()

	var orgs []Org
	for rows.Next() {
		var org Org
		if err := rows.Scan(&org.ID, &org.Name, &org.Plan, &org.InviteCode, &org.Email, &org.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan org: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orgs: %w", err)
	}
	return orgs, nil
}

// UpdateOrgContactEmail sets the address weekly report email goes to.
// Returns pgx.ErrNoRows when the workspace does not exist.
func (r *Repository) UpdateOrgContactEmail(ctx context.Context, orgID uuid.UUID, email string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orgs SET contact_email = $2 WHERE id = $1`,
		orgID, email,
	)
	if err != nil {
		return fmt.Errorf("update org contact email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// HasPaidOrg reports whether any workspace is on a paid plan. Used as a
// cheap scheduler precondition before running AI discovery.
func (r *Repository) HasPaidOrg(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orgs WHERE plan <> 'free')`,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has paid org: %w", err)
	}
	return exists, nil
}
