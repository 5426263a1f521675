package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid rate limit configuration")
	ErrInvalidTokenCount = errors.New("token count must be positive")
	ErrContextCancelled  = errors.New("context cancelled before consuming tokens")
	ErrStoreUnavailable  = errors.New("rate limit store unavailable")
)
