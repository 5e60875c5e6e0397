package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smart_channels/internal/executor"
	"smart_channels/internal/models"
	"smart_channels/internal/paramconfig"
	"smart_channels/internal/repository"
)

// ErrChannelNotFound covers both missing channels and channels of another user.
var ErrChannelNotFound = errors.New("channel not found")

type ChannelService struct {
	channelRepo repository.ChannelRepo
	eventRepo   repository.EventRepo
	resolver    *executor.Resolver
	translator  *paramconfig.Translator
}

func NewChannelService(
	channelRepo repository.ChannelRepo,
	eventRepo repository.EventRepo,
	resolver *executor.Resolver,
	translator *paramconfig.Translator,
) *ChannelService {
	if resolver == nil {
		resolver = executor.NewDefaultResolver()
	}
	if translator == nil {
		translator = paramconfig.NewTranslator(channelRepo, paramconfig.Options{})
	}
	return &ChannelService{
		channelRepo: channelRepo,
		eventRepo:   eventRepo,
		resolver:    resolver,
		translator:  translator,
	}
}

func (s *ChannelService) List(ctx context.Context, userID int) ([]models.Channel, error) {
	return s.channelRepo.ListByUser(ctx, userID)
}

func (s *ChannelService) Get(ctx context.Context, userID, channelID int) (ChannelDetails, error) {
	ch, err := s.owned(ctx, userID, channelID)
	if err != nil {
		return ChannelDetails{}, err
	}
	return ChannelDetails{
		Channel:          *ch,
		SupportedActions: s.resolver.SupportedActions(ch),
		ConfigKeys:       paramconfig.Keys(ch.Function),
	}, nil
}

// ExecuteAction encodes the action for the channel and logs ACTION_EXECUTED.
// The returned value is what the device should receive; channel params are untouched.
func (s *ChannelService) ExecuteAction(ctx context.Context, userID, channelID int, kind models.ActionKind, params models.ActionParams) (models.CommandValue, error) {
	ch, err := s.owned(ctx, userID, channelID)
	if err != nil {
		return models.CommandValue{}, err
	}
	e, err := s.resolver.Resolve(kind)
	if err != nil {
		return models.CommandValue{}, err
	}
	cmd, err := e.Execute(ch, params)
	if err != nil {
		return models.CommandValue{}, err
	}

	err = s.eventRepo.Append(ctx, models.ChannelEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventActionExecuted,
		UserID:      userID,
		ChannelID:   &ch.ID,
		Description: fmt.Sprintf("%s on channel %d", kind, ch.ID),
		Metadata: map[string]any{
			"action": kind,
			"field":  cmd.Field,
			"value":  cmd.Value,
		},
	})
	if err != nil {
		return models.CommandValue{}, err
	}
	return cmd, nil
}

func (s *ChannelService) GetConfig(ctx context.Context, userID, channelID int) (paramconfig.Config, error) {
	ch, err := s.owned(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}
	return s.translator.GetConfigFromParams(ctx, ch)
}

// UpdateConfig applies cfg, persists every channel it touched in one
// transaction and returns the resulting config.
func (s *ChannelService) UpdateConfig(ctx context.Context, userID, channelID int, cfg paramconfig.Config) (paramconfig.Config, error) {
	ch, err := s.owned(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}
	changed, err := s.translator.SetParamsFromConfig(ctx, ch, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.channelRepo.SaveParams(ctx, changed...); err != nil {
		return nil, err
	}

	linked := make([]int, 0, len(changed)-1)
	for _, c := range changed[1:] {
		linked = append(linked, c.ID)
	}
	err = s.eventRepo.Append(ctx, models.ChannelEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventConfigChanged,
		UserID:      userID,
		ChannelID:   &ch.ID,
		Description: fmt.Sprintf("config of channel %d changed", ch.ID),
		Metadata: map[string]any{
			"config":          cfg,
			"linked_channels": linked,
		},
	})
	if err != nil {
		return nil, err
	}
	return s.translator.GetConfigFromParams(ctx, ch)
}

// owned loads the channel and hides channels of other users.
func (s *ChannelService) owned(ctx context.Context, userID, channelID int) (*models.Channel, error) {
	ch, err := s.channelRepo.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil || ch.UserID != userID {
		return nil, fmt.Errorf("%w: %d", ErrChannelNotFound, channelID)
	}
	return ch, nil
}

// demoDevice is the channel set given to a freshly registered user.
var demoDevice = []models.Channel{
	{Caption: "Living room blinds", Type: models.TypeRelay, Function: models.FuncControllingTheRollerShutter},
	{Caption: "Blinds sensor", Type: models.TypeSensorNO, Function: models.FuncOpeningSensorRollerShutter},
	{Caption: "Gate", Type: models.TypeRelay, Function: models.FuncControllingTheGate},
	{Caption: "Gate sensor", Type: models.TypeSensorNC, Function: models.FuncOpeningSensorGate},
	{Caption: "Desk lamp", Type: models.TypeDimmer, Function: models.FuncDimmer},
	{Caption: "Socket", Type: models.TypeRelay, Function: models.FuncPowerSwitch},
	{Caption: "Water valve", Type: models.TypeValveOpenClose, Function: models.FuncValveOpenClose},
	{Caption: "Outdoor", Type: models.TypeThermometer, Function: models.FuncThermometer},
}

// SeedDemo registers one demo device with a channel of each common kind for userID.
func (s *ChannelService) SeedDemo(ctx context.Context, userID int) error {
	deviceID, err := s.channelRepo.NextDeviceID(ctx)
	if err != nil {
		return err
	}
	for i, tmpl := range demoDevice {
		ch := tmpl
		ch.UserID = userID
		ch.IODeviceID = deviceID
		ch.ChannelNumber = i
		if err := s.channelRepo.Create(ctx, &ch); err != nil {
			return fmt.Errorf("seed channel %d: %w", i, err)
		}
	}
	return nil
}
