// Package redis dials the Redis instance backing distributed rate
// limiting. The client is created once at startup, verified with a
// ping, and handed to ratelimiter.NewRedisStore.
//
// Connect mirrors the pg integration: parse REDIS_URL, retry with a
// linearly growing backoff while the container comes up, and fail the
// boot if Redis never answers. When rate limiting falls back to the
// in-memory store this package is not used at all.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store, err := ratelimiter.NewRedisStore(client)
package redis
