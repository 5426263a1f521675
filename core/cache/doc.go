// Package cache provides named, TTL- and size-bounded in-memory key-value
// pools that sit in front of every read path of the platform. Each pool is
// independently configured (max entries, time-to-live) and evicts the least
// recently used entry once at capacity.
//
// # Usage
//
//	pools := cache.New()
//	if err := pools.Register("auth", 512, time.Minute); err != nil {
//		log.Fatal(err)
//	}
//
//	pools.Set("auth", "account:42", accountID)
//
//	if v, ok := pools.Get("auth", "account:42"); ok {
//		accountID = v.(uuid.UUID)
//	}
//
// Mutation endpoints must invalidate the keys they make stale:
//
//	pools.Delete("auth", "membership:"+accountID+":"+orgID)
//	pools.InvalidatePrefix("org", "members:"+orgID)
//
// # Semantics
//
//   - Get never returns an entry whose age has reached the pool TTL; expired
//     entries are dropped lazily on access.
//   - Set on an existing key refreshes both the value and the entry age.
//   - Both Get and Set count as a recency touch for LRU ordering, so a
//     read-heavy hot key survives capacity pressure.
//   - Registering the same pool name twice fails with ErrDuplicatePool; pool
//     parameters can never drift silently.
//   - Operations on an unregistered pool are safe: Get misses, writes are
//     no-ops. Feature modules own their pool registration at startup.
//
// All pool state is guarded by per-pool mutexes; a Pools instance is safe for
// concurrent use from request handlers and background tasks. Construct one
// instance per process and inject it; the package deliberately exposes no
// global state so tests can build isolated instances.
package cache
