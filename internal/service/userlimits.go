package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smart_channels/internal/models"
	"smart_channels/internal/ratelimit"
	"smart_channels/internal/repository"
)

var ErrInvalidLimit = errors.New("limits must not be negative")

type UserLimitsService struct {
	users     repository.UserRepo
	eventRepo repository.EventRepo
	limiter   *ratelimit.Limiter
}

func NewUserLimitsService(users repository.UserRepo, eventRepo repository.EventRepo, limiter *ratelimit.Limiter) *UserLimitsService {
	return &UserLimitsService{users: users, eventRepo: eventRepo, limiter: limiter}
}

// Change applies c to the user. When the API rate rule actually changes the
// user's counter is cleared so the new rule applies from the next request.
func (s *UserLimitsService) Change(ctx context.Context, username string, c LimitsChange) (*models.User, error) {
	u, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, username)
	}

	limits, limitsChanged, err := newLimits(u.Limits, c)
	if err != nil {
		return nil, err
	}

	var (
		ruleChanged bool
		stored      *string
		newRule     ratelimit.Rule
	)
	if c.APIRateLimit != nil {
		newRule, err = ratelimit.ParseUserRule(*c.APIRateLimit, s.limiter.DefaultRule())
		if err != nil {
			return nil, err
		}
		if !newRule.Equal(s.limiter.RuleFor(u.APIRateLimit)) {
			ruleChanged = true
			if !newRule.IsDefault() {
				text := newRule.String()
				stored = &text
			}
		}
	}

	if limitsChanged {
		if err := s.users.UpdateLimits(ctx, u.ID, limits); err != nil {
			return nil, err
		}
		u.Limits = limits
		if err := s.log(ctx, u.ID, models.EventLimitsChanged, "limits changed", limits); err != nil {
			return nil, err
		}
	}

	if ruleChanged {
		if err := s.users.UpdateAPIRateLimit(ctx, u.ID, stored); err != nil {
			return nil, err
		}
		u.APIRateLimit = stored
		if err := s.limiter.Clear(ctx, ratelimit.UserKey(u.ID)); err != nil {
			return nil, fmt.Errorf("clear rate limit counter: %w", err)
		}
		meta := map[string]any{"rule": newRule.String(), "default": newRule.IsDefault()}
		if err := s.log(ctx, u.ID, models.EventRateLimitChanged, "API rate limit changed to "+newRule.String(), meta); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func newLimits(current models.Limits, c LimitsChange) (models.Limits, bool, error) {
	var next models.Limits
	switch {
	case c.LimitForAll != nil:
		n := *c.LimitForAll
		next = models.Limits{
			AccessID: n, ChannelGroup: n, ChannelPerGroup: n, DirectLink: n,
			Location: n, OAuthClient: n, Schedule: n,
		}
	case c.Limits != nil:
		next = *c.Limits
	default:
		return current, false, nil
	}
	for _, v := range []int{
		next.AccessID, next.ChannelGroup, next.ChannelPerGroup, next.DirectLink,
		next.Location, next.OAuthClient, next.Schedule,
	} {
		if v < 0 {
			return current, false, ErrInvalidLimit
		}
	}
	return next, next != current, nil
}

func (s *UserLimitsService) log(ctx context.Context, userID int, typ, description string, meta any) error {
	return s.eventRepo.Append(ctx, models.ChannelEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		UserID:      userID,
		Description: description,
		Metadata:    meta,
	})
}
