// Package ratelimit parses per-user API rate limit rules and enforces them
// against a shared counter store.
package ratelimit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultToken selects the system-wide default rule in user input.
const DefaultToken = "default"

// MaxPeriodSeconds is the longest accepted window, one leap year.
const MaxPeriodSeconds = 366 * 24 * 60 * 60

// ErrInvalidRateLimitFormat is returned for rule text not in "<limit>/<seconds>" form.
var ErrInvalidRateLimitFormat = errors.New("invalid API rate limit rule, format: limit/seconds")

// Rule caps a user at Limit requests per PeriodSeconds.
type Rule struct {
	Limit         int
	PeriodSeconds int

	isDefault bool
}

// ParseRule parses "<limit>/<seconds>". Both parts must be positive decimal
// integers without leading zeros, and the period may not exceed MaxPeriodSeconds.
func ParseRule(text string) (Rule, error) {
	limitText, periodText, ok := strings.Cut(strings.TrimSpace(text), "/")
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRateLimitFormat, text)
	}
	limit, err := parsePositive(limitText)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRateLimitFormat, text)
	}
	period, err := parsePositive(periodText)
	if err != nil || period > MaxPeriodSeconds {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRateLimitFormat, text)
	}
	return Rule{Limit: limit, PeriodSeconds: period}, nil
}

// NewDefaultRule builds the distinguished default rule from its configured text.
// It should be called once at startup and the result passed around.
func NewDefaultRule(text string) (Rule, error) {
	r, err := ParseRule(text)
	if err != nil {
		return Rule{}, fmt.Errorf("default rule: %w", err)
	}
	r.isDefault = true
	return r, nil
}

// ParseUserRule parses rule text entered for a user; "default" yields def.
func ParseUserRule(text string, def Rule) (Rule, error) {
	if strings.EqualFold(strings.TrimSpace(text), DefaultToken) {
		return def, nil
	}
	return ParseRule(text)
}

// parsePositive accepts only ASCII digits, so "+5", " 5" and "5.0" are rejected.
// Leading zeros are rejected too, which keeps String the inverse of ParseRule.
func parsePositive(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, errors.New("leading zero")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("not a decimal integer")
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("not positive")
	}
	return n, nil
}

// IsValid reports whether both limit and period are positive.
func (r Rule) IsValid() bool {
	return r.Limit > 0 && r.PeriodSeconds > 0
}

// IsDefault reports whether r is the system-wide default rule.
func (r Rule) IsDefault() bool {
	return r.isDefault
}

// Equal compares limit and period. The default rule is equal only to itself,
// never to a user rule with the same numbers.
func (r Rule) Equal(other Rule) bool {
	return r.isDefault == other.isDefault &&
		r.Limit == other.Limit &&
		r.PeriodSeconds == other.PeriodSeconds
}

// Period returns the window length.
func (r Rule) Period() time.Duration {
	return time.Duration(r.PeriodSeconds) * time.Second
}

// String renders the canonical "<limit>/<seconds>" form.
func (r Rule) String() string {
	return strconv.Itoa(r.Limit) + "/" + strconv.Itoa(r.PeriodSeconds)
}
