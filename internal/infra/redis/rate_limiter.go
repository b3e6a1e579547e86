package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter throttles how often a user may run each bot command. Counts
// live in Redis under a fixed window so every polling worker shares the
// same budget.
type RateLimiter struct {
	client *Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow increments the counter behind key and reports whether the caller
// is still within the window budget. The window starts at the first hit.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window); err != nil {
			return false, err
		}
	}
	return count <= int64(r.limit), nil
}

// UserCommandKey namespaces the per-user counter by command, so a burst of
// /getvoucher retries does not eat the budget for /info.
func UserCommandKey(userID int64, command string) string {
	return fmt.Sprintf("voucherbot:rate:%d:%s", userID, command)
}
