package service

import (
	"time"

	"smart_channels/internal/models"
	"smart_channels/internal/paramconfig"
)

// LogFilter supports history filtering by time range, type and channel.
type LogFilter struct {
	From      time.Time // inclusive; zero means no lower bound
	To        time.Time // inclusive; zero means no upper bound
	Type      string    // "", "ACTION_EXECUTED", "CONFIG_CHANGED", "RATE_LIMIT_CHANGED", "LIMITS_CHANGED"
	ChannelID int       // zero means every channel
}

// ChannelDetails is a channel together with what can be done with it.
type ChannelDetails struct {
	Channel          models.Channel      `json:"channel"`
	SupportedActions []models.ActionKind `json:"supported_actions"`
	ConfigKeys       []string            `json:"config_keys"`
}

// ChannelSnapshot is what the channel stream pushes.
type ChannelSnapshot struct {
	Channel models.Channel     `json:"channel"`
	Config  paramconfig.Config `json:"config"`
	At      time.Time          `json:"at"`
}

// LimitsChange describes an update of a user's limits. Nil fields are left alone.
// LimitForAll, when set, wins over Limits.
type LimitsChange struct {
	LimitForAll  *int
	Limits       *models.Limits
	APIRateLimit *string // rule text or "default"
}
