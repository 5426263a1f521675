// Package postgres implements the platform repositories on PostgreSQL using pgx.
//
// Repositories are thin: they own SQL and row scanning, nothing else. Cache
// invalidation after mutations is the caller's responsibility so that the
// invalidation set stays next to the operation that knows what it changed.
//
// Lookups that can legitimately miss return (nil, nil) rather than a sentinel
// error, matching the authz store contracts.
package postgres
