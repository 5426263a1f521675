// Package authz derives and caches identity-to-account and account-to-role
// lookups on top of the cache pool manager. It is the authorization layer
// every protected request passes through after init data verification.
//
// # Usage
//
//	auth, err := authz.New(pools, accountStore, orgStore)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	accountID, err := auth.RequireAdmin(ctx, claims.TelegramID, orgID)
//	switch {
//	case errors.Is(err, authz.ErrUnknownIdentity):
//		// 404, no account for this Telegram identity
//	case errors.Is(err, authz.ErrNotAMember), errors.Is(err, authz.ErrInsufficientRole):
//		// 403
//	}
//
// Lookups populate the "auth" pool on success and never write on failure.
// Concurrent misses on the same key are deduplicated with singleflight, so at
// most one store call per key is in flight at any time.
//
// # Invalidation contract
//
// Any mutation that changes an account's membership or role MUST invalidate
// the affected keys via InvalidateMembership or InvalidateAccountMemberships.
// A stale cached role is a privilege-lag window bounded by the pool TTL; the
// invalidation calls shrink that window to zero for the mutating path.
package authz
