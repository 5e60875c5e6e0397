package service

import (
	"context"
	"fmt"

	"smart_channels/internal/ratelimit"
	"smart_channels/internal/repository"
)

type RateLimitService struct {
	users   repository.UserRepo
	limiter *ratelimit.Limiter
}

func NewRateLimitService(users repository.UserRepo, limiter *ratelimit.Limiter) *RateLimitService {
	return &RateLimitService{users: users, limiter: limiter}
}

// Check counts one API request of userID under the user's own rule.
func (s *RateLimitService) Check(ctx context.Context, userID int) (ratelimit.Decision, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ratelimit.Decision{}, err
	}
	if u == nil {
		return ratelimit.Decision{}, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	return s.limiter.Check(ctx, ratelimit.UserKey(u.ID), s.limiter.RuleFor(u.APIRateLimit))
}
