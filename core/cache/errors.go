package cache

import "errors"

var (
	// ErrDuplicatePool is returned when registering a pool name that already
	// exists. Registration is not idempotent: re-registering would allow pool
	// parameters to drift silently between callers.
	ErrDuplicatePool = errors.New("cache pool already registered")
	// ErrInvalidPoolConfig is returned when a pool is registered with a
	// non-positive max size or TTL.
	ErrInvalidPoolConfig = errors.New("invalid cache pool configuration")
)
