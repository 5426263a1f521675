package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps bucket state in a process-local map. It backs rate
// limiting when no Redis is configured; counts then reset on restart
// and are not shared between instances, which is acceptable for a
// single-node deployment.
//
// Stale entries are swept opportunistically during ConsumeTokens, so
// the store needs no background goroutine or lifecycle management.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*memoryBucket
	staleAfter time.Duration
	sweepEvery time.Duration
	lastSweep  time.Time
}

type memoryBucket struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

// MemoryStoreOption tweaks a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithStaleAfter sets how long an untouched key survives before the
// next sweep drops it.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.staleAfter = d
		}
	}
}

// WithSweepInterval sets the minimum time between stale sweeps.
func WithSweepInterval(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.sweepEvery = d
		}
	}
}

// NewMemoryStore returns a ready store; no Start call is needed.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		entries:    make(map[string]*memoryBucket),
		staleAfter: time.Hour,
		sweepEvery: 5 * time.Minute,
		lastSweep:  time.Now(),
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// ConsumeTokens refills the bucket for key per config and deducts
// tokens. A negative remaining count means the request is denied.
func (ms *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	now := time.Now()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.maybeSweep(now)

	b, ok := ms.entries[key]
	if !ok {
		b = &memoryBucket{tokens: config.Capacity, lastRefill: now}
		ms.entries[key] = b
	}

	// Whole elapsed refill intervals grant RefillRate tokens each,
	// capped at capacity. The interval count itself is capped so a key
	// idle for days cannot overflow the arithmetic.
	intervals := int64(now.Sub(b.lastRefill) / config.RefillInterval)
	if limit := int64(config.Capacity/config.RefillRate) + 1; intervals > limit {
		intervals = limit
	}
	if intervals > 0 {
		b.tokens = min(b.tokens+int(intervals)*config.RefillRate, config.Capacity)
		b.lastRefill = now
	}

	b.tokens -= tokens
	b.lastSeen = now

	return b.tokens, b.lastRefill.Add(config.RefillInterval), nil
}

// Reset forgets the bucket for key; its next use starts at capacity.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.entries, key)
	return nil
}

// Len reports the number of tracked keys.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.entries)
}

// maybeSweep drops stale keys at most once per sweep interval.
// Caller holds ms.mu.
func (ms *MemoryStore) maybeSweep(now time.Time) {
	if now.Sub(ms.lastSweep) < ms.sweepEvery {
		return
	}
	ms.lastSweep = now
	for key, b := range ms.entries {
		if now.Sub(b.lastSeen) > ms.staleAfter {
			delete(ms.entries, key)
		}
	}
}
