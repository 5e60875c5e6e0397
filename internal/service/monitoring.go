package service

import (
	"context"
	"time"
)

type MonitoringService struct {
	channels *ChannelService
	now      func() time.Time
}

func NewMonitoringService(channels *ChannelService) *MonitoringService {
	return &MonitoringService{channels: channels, now: time.Now}
}

// Snapshot returns the current parameters of a channel both raw and as config.
func (s *MonitoringService) Snapshot(ctx context.Context, userID, channelID int) (ChannelSnapshot, error) {
	ch, err := s.channels.owned(ctx, userID, channelID)
	if err != nil {
		return ChannelSnapshot{}, err
	}
	cfg, err := s.channels.translator.GetConfigFromParams(ctx, ch)
	if err != nil {
		return ChannelSnapshot{}, err
	}
	return ChannelSnapshot{
		Channel: *ch,
		Config:  cfg,
		At:      toUTC(s.now()),
	}, nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
