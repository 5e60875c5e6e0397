package ratelimit

import (
	"context"
	"time"
)

// Window describes the counting window a request falls into.
type Window struct {
	Period time.Duration
	// RuleKey identifies the rule the counter is kept under. A counter kept
	// under another rule is restarted instead of incremented.
	RuleKey string
	Now     time.Time
}

// Counter is the state of one user's counter after an increment.
type Counter struct {
	Count   int64
	ResetAt time.Time
}

// Store defines the interface for rate limit counter backends.
type Store interface {
	// Increment atomically increments the counter for key in the current
	// window and returns the new state.
	Increment(ctx context.Context, key string, w Window) (Counter, error)

	// Reset removes the counter for key.
	Reset(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
