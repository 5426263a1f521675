package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config defines token bucket parameters.
type Config struct {
	// Capacity is the maximum number of tokens the bucket holds.
	Capacity int
	// RefillRate is the number of tokens added per refill interval.
	RefillRate int
	// RefillInterval is how often tokens are added.
	RefillInterval time.Duration
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("capacity must be > 0, got %d", c.Capacity))
	}
	if c.RefillRate <= 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("refill rate must be > 0, got %d", c.RefillRate))
	}
	if c.RefillInterval <= 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("refill interval must be > 0, got %v", c.RefillInterval))
	}
	return nil
}

// Result reports the outcome of a token consumption attempt.
type Result struct {
	// Limit is the bucket capacity.
	Limit int
	// Remaining is the token count after consumption. Negative means denied.
	Remaining int
	// ResetAt is when the next refill happens.
	ResetAt time.Time
}

// Allowed reports whether the request was within the limit.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before retrying a denied request.
// Returns 0 for allowed requests.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	if d := time.Until(r.ResetAt); d > 0 {
		return d
	}
	return 0
}

// Store persists bucket state. Implementations must apply the token bucket
// algorithm atomically per key.
type Store interface {
	// ConsumeTokens refills the bucket for key per config, then deducts the
	// requested tokens. A negative remaining count means the request is denied.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset removes the bucket state for key.
	Reset(ctx context.Context, key string) error
}

// RateLimiter is the consumption contract used by middleware and handlers.
type RateLimiter interface {
	// Allow consumes a single token for key.
	Allow(ctx context.Context, key string) (*Result, error)

	// AllowN consumes n tokens for key.
	AllowN(ctx context.Context, key string, n int) (*Result, error)
}

// Bucket implements RateLimiter over a pluggable Store.
type Bucket struct {
	store  Store
	config Config
}

// NewBucket creates a rate limiter with the given storage backend and config.
func NewBucket(store Store, config Config) (*Bucket, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is required"))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, config: config}, nil
}

// Allow consumes a single token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN consumes n tokens for key.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 {
		return nil, errors.Join(ErrInvalidTokenCount, fmt.Errorf("token count must be > 0, got %d", n))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrContextCancelled, err)
	}

	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.config)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return &Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the bucket for key, restoring it to full capacity on next use.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	if err := b.store.Reset(ctx, key); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
