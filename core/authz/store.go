package authz

import (
	"context"

	"github.com/google/uuid"
)

// Role is a membership role within an organization.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Account is the internal identity record, distinct from the external
// Telegram identity it is keyed by.
type Account struct {
	ID         uuid.UUID
	TelegramID int64
	FullName   string
	Username   string
	PhotoURL   string
}

// Membership links an account to an organization with a role. Unique per
// (account, organization).
type Membership struct {
	AccountID uuid.UUID
	OrgID     uuid.UUID
	Role      Role
}

// IsAdmin reports whether the membership carries the admin role.
func (m Membership) IsAdmin() bool { return m.Role == RoleAdmin }

// AccountStore resolves external identities to accounts. Called only on
// cache miss.
type AccountStore interface {
	// FindAccountByTelegramID returns the account for the given Telegram
	// identity, or (nil, nil) when none exists.
	FindAccountByTelegramID(ctx context.Context, telegramID int64) (*Account, error)
}

// OrgStore resolves memberships. Called only on cache miss.
type OrgStore interface {
	// FindMembership returns the membership row for (account, org), or
	// (nil, nil) when none exists.
	FindMembership(ctx context.Context, accountID, orgID uuid.UUID) (*Membership, error)
}
