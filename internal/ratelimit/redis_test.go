package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreIncrement(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()
	w := Window{Period: time.Minute, RuleKey: "5/60", Now: t0}

	for i := int64(1); i <= 5; i++ {
		got, err := s.Increment(ctx, "user:1", w)
		if err != nil {
			t.Fatal(err)
		}
		if got.Count != i {
			t.Errorf("increment %d: got %d, want %d", i, got.Count, i)
		}
		if got.ResetAt.After(t0.Add(time.Minute)) || !got.ResetAt.After(t0) {
			t.Errorf("reset at %v outside the window", got.ResetAt)
		}
	}
}

func TestRedisStoreWindowExpiry(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()
	w := Window{Period: time.Minute, RuleKey: "5/60", Now: t0}

	s.Increment(ctx, "k", w)
	s.Increment(ctx, "k", w)

	mr.FastForward(time.Minute)

	got, err := s.Increment(ctx, "k", w)
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 1 {
		t.Errorf("after expiry: got %d, want 1", got.Count)
	}
}

func TestRedisStoreRuleChangeRestarts(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	s.Increment(ctx, "k", Window{Period: time.Minute, RuleKey: "2/60", Now: t0})
	s.Increment(ctx, "k", Window{Period: time.Minute, RuleKey: "2/60", Now: t0})

	got, _ := s.Increment(ctx, "k", Window{Period: time.Minute, RuleKey: "10/60", Now: t0})
	if got.Count != 1 {
		t.Errorf("after rule change: got %d, want 1", got.Count)
	}
}

func TestRedisStoreReset(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()
	w := Window{Period: time.Minute, RuleKey: "r", Now: t0}

	s.Increment(ctx, "k", w)
	if !mr.Exists("ratelimit:k") {
		t.Fatalf("expected prefixed key to exist")
	}
	if err := s.Reset(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("ratelimit:k") {
		t.Fatalf("key still exists after reset")
	}
	if got, _ := s.Increment(ctx, "k", w); got.Count != 1 {
		t.Errorf("after reset: got %d, want 1", got.Count)
	}
}
