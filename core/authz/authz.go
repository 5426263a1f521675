package authz

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/apexhub/core/cache"
)

// PoolName is the cache pool the authorizer reads and writes. The pool must
// be registered before the authorizer is constructed.
const PoolName = "auth"

// Authorizer caches identity and membership resolution in front of the
// account/organization stores.
type Authorizer struct {
	pools    *cache.Pools
	accounts AccountStore
	orgs     OrgStore
	group    singleflight.Group
}

// New creates an Authorizer. The "auth" pool must already be registered on
// pools; a missing pool is a startup configuration error, not something to
// discover at request time.
func New(pools *cache.Pools, accounts AccountStore, orgs OrgStore) (*Authorizer, error) {
	if pools == nil {
		return nil, errors.New("authz: pools is required")
	}
	if _, ok := pools.Pool(PoolName); !ok {
		return nil, fmt.Errorf("authz: cache pool %q is not registered", PoolName)
	}
	if accounts == nil {
		return nil, errors.New("authz: account store is required")
	}
	if orgs == nil {
		return nil, errors.New("authz: org store is required")
	}

	return &Authorizer{
		pools:    pools,
		accounts: accounts,
		orgs:     orgs,
	}, nil
}

// ResolveAccount maps a Telegram identity to the internal account ID, caching
// the result. Fails with ErrUnknownIdentity when no account exists.
func (a *Authorizer) ResolveAccount(ctx context.Context, telegramID int64) (uuid.UUID, error) {
	key := accountKey(telegramID)

	if v, ok := a.pools.Get(PoolName, key); ok {
		return v.(uuid.UUID), nil
	}

	// singleflight collapses concurrent misses on the same identity into a
	// single store call; every waiter observes the same result.
	v, err, _ := a.group.Do(key, func() (any, error) {
		if v, ok := a.pools.Get(PoolName, key); ok {
			return v, nil
		}

		account, err := a.accounts.FindAccountByTelegramID(ctx, telegramID)
		if err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		if account == nil {
			return nil, ErrUnknownIdentity
		}

		a.pools.Set(PoolName, key, account.ID)
		return account.ID, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return v.(uuid.UUID), nil
}

// ResolveMembership resolves the membership of account in org, caching the
// result. Fails with ErrNotAMember when no membership row exists.
func (a *Authorizer) ResolveMembership(ctx context.Context, accountID, orgID uuid.UUID) (Membership, error) {
	key := membershipKey(accountID, orgID)

	if v, ok := a.pools.Get(PoolName, key); ok {
		return v.(Membership), nil
	}

	v, err, _ := a.group.Do(key, func() (any, error) {
		if v, ok := a.pools.Get(PoolName, key); ok {
			return v, nil
		}

		membership, err := a.orgs.FindMembership(ctx, accountID, orgID)
		if err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		if membership == nil {
			return nil, ErrNotAMember
		}

		a.pools.Set(PoolName, key, *membership)
		return *membership, nil
	})
	if err != nil {
		return Membership{}, err
	}
	return v.(Membership), nil
}

// RequireMember resolves the caller's account and verifies membership in the
// organization. Returns the account ID and role.
func (a *Authorizer) RequireMember(ctx context.Context, telegramID int64, orgID uuid.UUID) (uuid.UUID, Role, error) {
	accountID, err := a.ResolveAccount(ctx, telegramID)
	if err != nil {
		return uuid.Nil, "", err
	}

	membership, err := a.ResolveMembership(ctx, accountID, orgID)
	if err != nil {
		return uuid.Nil, "", err
	}

	return accountID, membership.Role, nil
}

// RequireAdmin verifies the caller is an admin of the organization. Fails
// with ErrInsufficientRole for non-admin members.
func (a *Authorizer) RequireAdmin(ctx context.Context, telegramID int64, orgID uuid.UUID) (uuid.UUID, error) {
	accountID, role, err := a.RequireMember(ctx, telegramID, orgID)
	if err != nil {
		return uuid.Nil, err
	}
	if role != RoleAdmin {
		return uuid.Nil, ErrInsufficientRole
	}
	return accountID, nil
}

// InvalidateMembership drops the cached membership for (account, org). Every
// mutation that changes a role or removes a member must call this.
func (a *Authorizer) InvalidateMembership(accountID, orgID uuid.UUID) {
	a.pools.Delete(PoolName, membershipKey(accountID, orgID))
}

// InvalidateAccountMemberships drops every cached membership of the account,
// for mutations that affect an unknown set of organizations.
func (a *Authorizer) InvalidateAccountMemberships(accountID uuid.UUID) {
	a.pools.InvalidatePrefix(PoolName, "membership:"+accountID.String()+":")
}

// InvalidateAccount drops the cached identity-to-account mapping, for account
// deletion or re-linking.
func (a *Authorizer) InvalidateAccount(telegramID int64) {
	a.pools.Delete(PoolName, accountKey(telegramID))
}

func accountKey(telegramID int64) string {
	return "account:" + strconv.FormatInt(telegramID, 10)
}

func membershipKey(accountID, orgID uuid.UUID) string {
	return "membership:" + accountID.String() + ":" + orgID.String()
}
