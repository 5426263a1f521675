package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apexhub/core/cache"
)

// TestPools_ConcurrentAccess hammers a small pool from many goroutines mixing
// reads, writes, deletes, and prefix invalidation. Run with -race; the
// assertion at the end only checks that bookkeeping stayed within bounds.
func TestPools_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	pools := cache.New()
	require.NoError(t, pools.Register("auth", 32, time.Minute))

	const goroutines = 16
	const opsPerGoroutine = 500

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for g := range goroutines {
		go func(g int) {
			defer wg.Done()
			for i := range opsPerGoroutine {
				key := fmt.Sprintf("membership:acct%d:org%d", g%4, i%8)
				switch i % 5 {
				case 0, 1:
					pools.Set("auth", key, i)
				case 2, 3:
					pools.Get("auth", key)
				case 4:
					if i%20 == 4 {
						pools.InvalidatePrefix("auth", fmt.Sprintf("membership:acct%d:", g%4))
					} else {
						pools.Delete("auth", key)
					}
				}
			}
		}(g)
	}

	wg.Wait()

	p, ok := pools.Pool("auth")
	require.True(t, ok)
	assert.LessOrEqual(t, p.Len(), 32, "pool must never exceed its max size")
}

// TestPools_ConcurrentRegistration verifies that racing registrations of the
// same name produce exactly one pool and one ErrDuplicatePool per loser.
func TestPools_ConcurrentRegistration(t *testing.T) {
	t.Parallel()

	pools := cache.New()

	const attempts = 8
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	wg.Add(attempts)
	for range attempts {
		go func() {
			defer wg.Done()
			errs <- pools.Register("leads", 64, time.Minute)
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, cache.ErrDuplicatePool)
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)
}
