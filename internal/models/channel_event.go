package models

import "time"

// Event types recorded in the channel event log.
const (
	EventActionExecuted   = "ACTION_EXECUTED"
	EventConfigChanged    = "CONFIG_CHANGED"
	EventRateLimitChanged = "RATE_LIMIT_CHANGED"
	EventLimitsChanged    = "LIMITS_CHANGED"
)

// ChannelEvent is a single log entry.
type ChannelEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // ACTION_EXECUTED | CONFIG_CHANGED | RATE_LIMIT_CHANGED | LIMITS_CHANGED
	UserID      int       `json:"user_id"`
	ChannelID   *int      `json:"channel_id,omitempty"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
