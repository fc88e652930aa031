package ratelimit

import "context"

// RateLimiter throttles requests per caller key (e.g. "login:<ip>").
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
