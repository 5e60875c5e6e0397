package service

import (
	"context"
	"time"

	"smart_channels/internal/executor"
	"smart_channels/internal/models"
	"smart_channels/internal/paramconfig"
	"smart_channels/internal/ratelimit"
	"smart_channels/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Channels exposes a user's channels, their actions and their configuration.
type Channels interface {
	List(ctx context.Context, userID int) ([]models.Channel, error)
	Get(ctx context.Context, userID, channelID int) (ChannelDetails, error)
	ExecuteAction(ctx context.Context, userID, channelID int, kind models.ActionKind, params models.ActionParams) (models.CommandValue, error)
	GetConfig(ctx context.Context, userID, channelID int) (paramconfig.Config, error)
	UpdateConfig(ctx context.Context, userID, channelID int, cfg paramconfig.Config) (paramconfig.Config, error)
}

// Monitoring exposes read-only channel snapshots for streaming.
type Monitoring interface {
	Snapshot(ctx context.Context, userID, channelID int) (ChannelSnapshot, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, userID int, f LogFilter) ([]models.ChannelEvent, error)
}

// RateLimits counts API requests against each user's rule.
type RateLimits interface {
	Check(ctx context.Context, userID int) (ratelimit.Decision, error)
}

// UserLimits changes object limits and the API rate rule of a user.
type UserLimits interface {
	Change(ctx context.Context, username string, c LimitsChange) (*models.User, error)
}

type Service struct {
	Authorization
	Channels
	Monitoring
	EventLog
	RateLimits
	UserLimits
}

// Deps carries the non-repository collaborators of the services.
type Deps struct {
	Limiter       *ratelimit.Limiter
	Resolver      *executor.Resolver
	Translator    *paramconfig.Translator
	SigningKey    string
	TokenTTL      time.Duration
	DefaultLimits models.Limits
	SeedChannels  bool
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	channels := NewChannelService(repos.ChannelRepo, repos.EventRepo, deps.Resolver, deps.Translator)

	auth := NewAuthService(repos.Auth, AuthConfig{
		SigningKey:    deps.SigningKey,
		TokenTTL:      deps.TokenTTL,
		DefaultLimits: deps.DefaultLimits,
	})
	if deps.SeedChannels {
		auth.OnSignUp(channels.SeedDemo)
	}

	return &Service{
		Authorization: auth,
		Channels:      channels,
		Monitoring:    NewMonitoringService(channels),
		EventLog:      NewEventLogService(repos.EventRepo),
		RateLimits:    NewRateLimitService(repos.UserRepo, deps.Limiter),
		UserLimits:    NewUserLimitsService(repos.UserRepo, repos.EventRepo, deps.Limiter),
	}
}
