// Package executor translates logical channel actions into device command values.
package executor

import (
	"errors"
	"fmt"

	"smart_channels/internal/models"
)

var (
	ErrUnsupportedAction   = errors.New("action is not supported by the channel function")
	ErrNoExecutorForAction = errors.New("no executor registered for action")
	ErrInvalidActionParams = errors.New("invalid action parameters")
)

// ActionExecutor encodes one action kind for the channel functions it knows.
// Execute has no side effects; writing the value to the device is up to the caller.
type ActionExecutor interface {
	SupportedAction() models.ActionKind
	IsSupported(ch *models.Channel) bool
	Execute(ch *models.Channel, params models.ActionParams) (models.CommandValue, error)
}

// target is what a family of actions knows about one channel function:
// which field it writes and how to compute the "on" value from params.
type target struct {
	field   models.CommandField
	onValue func(models.ActionParams) (int, error)
}

// family is a targeting predicate shared by related actions, e.g. TURN_ON and TURN_OFF.
type family map[models.ChannelFunction]target

func (f family) lookup(ch *models.Channel) (target, bool) {
	if ch == nil {
		return target{}, false
	}
	t, ok := f[ch.Function]
	return t, ok
}

// valueFunc computes the command value once the channel is known to be targetable.
type valueFunc func(t target, params models.ActionParams) (int, error)

// variant is the single ActionExecutor implementation: an action kind tagged onto
// a targeting family, an optional restriction of it and a value strategy.
type variant struct {
	action models.ActionKind
	family family
	only   map[models.ChannelFunction]bool // nil means the whole family
	field  models.CommandField             // overrides the family's field when set
	value  valueFunc
}

var _ ActionExecutor = (*variant)(nil)

func (v *variant) SupportedAction() models.ActionKind {
	return v.action
}

func (v *variant) IsSupported(ch *models.Channel) bool {
	_, ok := v.target(ch)
	return ok
}

func (v *variant) Execute(ch *models.Channel, params models.ActionParams) (models.CommandValue, error) {
	t, ok := v.target(ch)
	if !ok {
		return models.CommandValue{}, unsupported(v.action, ch)
	}
	value, err := v.value(t, params)
	if err != nil {
		return models.CommandValue{}, err
	}
	field := t.field
	if v.field != "" {
		field = v.field
	}
	return models.CommandValue{Field: field, Value: value}, nil
}

func (v *variant) target(ch *models.Channel) (target, bool) {
	t, ok := v.family.lookup(ch)
	if !ok {
		return target{}, false
	}
	if v.only != nil && !v.only[ch.Function] {
		return target{}, false
	}
	return t, true
}

func unsupported(action models.ActionKind, ch *models.Channel) error {
	if ch == nil {
		return fmt.Errorf("%w: %s on nil channel", ErrUnsupportedAction, action)
	}
	return fmt.Errorf("%w: %s on channel %d (%s)", ErrUnsupportedAction, action, ch.ID, ch.Function)
}

// onValue uses the family's own "on" computation.
func onValue(t target, params models.ActionParams) (int, error) {
	return t.onValue(params)
}

// constant ignores params entirely.
func constant(n int) valueFunc {
	return func(target, models.ActionParams) (int, error) {
		return n, nil
	}
}
