package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Decision is the outcome of one Check.
type Decision struct {
	Allowed   bool
	Rule      Rule
	Count     int64
	Remaining int
	ResetAt   time.Time
}

// Limiter enforces per-user rules against a shared Store.
// Construct one at process start and pass it to whatever dispatches requests.
type Limiter struct {
	store Store
	def   Rule
	now   func() time.Time
}

func NewLimiter(store Store, def Rule) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("rate limit store is required")
	}
	if !def.IsDefault() || !def.IsValid() {
		return nil, errors.New("a valid default rule is required")
	}
	return &Limiter{store: store, def: def, now: time.Now}, nil
}

// DefaultRule returns the system-wide fallback rule.
func (l *Limiter) DefaultRule() Rule {
	return l.def
}

// RuleFor resolves a stored user rule; nil or unparsable text yields the default rule.
func (l *Limiter) RuleFor(text *string) Rule {
	if text == nil {
		return l.def
	}
	r, err := ParseRule(*text)
	if err != nil {
		return l.def
	}
	return r
}

// Check counts one request for userKey and decides whether it may proceed.
// An invalid rule is replaced by the default rule.
func (l *Limiter) Check(ctx context.Context, userKey string, rule Rule) (Decision, error) {
	if !rule.IsValid() {
		rule = l.def
	}
	c, err := l.store.Increment(ctx, userKey, Window{
		Period:  rule.Period(),
		RuleKey: rule.String(),
		Now:     l.now().UTC(),
	})
	if err != nil {
		return Decision{}, err
	}

	remaining := rule.Limit - int(c.Count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   c.Count <= int64(rule.Limit),
		Rule:      rule,
		Count:     c.Count,
		Remaining: remaining,
		ResetAt:   c.ResetAt,
	}, nil
}

// Clear resets the user's counter, so that a changed rule applies at once.
func (l *Limiter) Clear(ctx context.Context, userKey string) error {
	return l.store.Reset(ctx, userKey)
}

// UserKey is the counter key of a user.
func UserKey(userID int) string {
	return "user:" + strconv.Itoa(userID)
}
