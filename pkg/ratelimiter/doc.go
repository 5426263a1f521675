// Package ratelimiter throttles API traffic with a token bucket per
// key, where the key is usually a client IP extracted by the HTTP
// middleware.
//
// Bucket state lives behind the Store interface. Production deploys
// use RedisStore so limits hold across instances and restarts; when no
// Redis is configured the app falls back to MemoryStore, which is
// process-local:
//
//	store, err := ratelimiter.NewRedisStore(client)
//	if err != nil {
//		return err
//	}
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       120,
//		RefillRate:     2,
//		RefillInterval: time.Second,
//	})
//
// Allow deducts one token and reports the remaining budget; a negative
// remainder means the request is over the limit and Result.RetryAfter
// says how long the client should back off.
package ratelimiter
