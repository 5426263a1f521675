package ratelimiter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apexhub/pkg/ratelimiter"
)

// Fifty goroutines hammer one key with no refill in sight; exactly
// capacity of them may get through.
func TestBucketConcurrentExactAdmission(t *testing.T) {
	t.Parallel()

	const capacity = 20
	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Capacity:       capacity,
		RefillRate:     1,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Allow(context.Background(), "shared")
			if err == nil && res.Allowed() {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(capacity), allowed.Load())
}

// Concurrent traffic across many keys plus resets, run with -race to
// shake out locking mistakes in the store.
func TestMemoryStoreConcurrentKeys(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithStaleAfter(time.Millisecond),
		ratelimiter.WithSweepInterval(time.Millisecond),
	)
	cfg := ratelimiter.Config{Capacity: 100, RefillRate: 10, RefillInterval: time.Millisecond}

	keys := []string{"a", "b", "c", "d"}
	var wg sync.WaitGroup
	for _, key := range keys {
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 25 {
					_, _, err := store.ConsumeTokens(context.Background(), key, 1, cfg)
					assert.NoError(t, err)
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Reset(context.Background(), key))
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, store.Len(), len(keys))
}
