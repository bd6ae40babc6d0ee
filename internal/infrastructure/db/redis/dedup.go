package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupPrefix = "dedup:"

// DedupChecker rejects a repeated action while its key is alive.
// Key format: dedup:<key>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// Claim records key for ttl and reports whether this call was the first.
func (d *DedupChecker) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, dedupPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}

// Release forgets key so the action can be retried straight away.
func (d *DedupChecker) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, dedupPrefix+key).Err(); err != nil {
		return fmt.Errorf("dedup release: %w", err)
	}
	return nil
}
