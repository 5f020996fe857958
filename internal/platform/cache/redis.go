// Package cache connects to the Redis instance that stores console sessions.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Open creates a Redis client for addr and pings it. The client is returned
// together with the ping error so callers may start degraded and retry later.
func Open(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return client, Check(ctx, client)
}

// Check pings the session store, bounded by a short timeout.
func Check(ctx context.Context, client redis.UniversalClient) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("platform/cache: ping: %w", err)
	}
	return nil
}

// Probe adapts Check to a readiness callback.
func Probe(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		return Check(ctx, client)
	}
}
