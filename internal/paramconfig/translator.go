// Package paramconfig translates between user-facing channel configuration and
// the four integer parameter slots stored on every channel.
package paramconfig

import (
	"context"
	"errors"
	"fmt"

	"smart_channels/internal/models"
)

var (
	ErrUnsupportedConfigForFunction = errors.New("config key is not supported by the channel function")
	ErrInvalidConfigValue           = errors.New("invalid config value")
	ErrInvalidChannelLink           = errors.New("invalid channel link")
)

// Config is the user-facing representation of a channel's parameters.
type Config map[string]any

const (
	KeyOpeningTimeS           = "openingTimeS"
	KeyClosingTimeS           = "closingTimeS"
	KeyOpeningSensorChannelID = "openingSensorChannelId"
	KeyRelayTimeS             = "relayTimeS"
	KeyInvertedLogic          = "invertedLogic"
	KeyTemperatureAdjustment  = "temperatureAdjustment"
)

// keyOrder fixes the order in which keys are validated and applied.
var keyOrder = []string{
	KeyOpeningTimeS,
	KeyClosingTimeS,
	KeyRelayTimeS,
	KeyInvertedLogic,
	KeyTemperatureAdjustment,
	KeyOpeningSensorChannelID,
}

const DefaultMaxOpeningClosingTimeS = 300

// ChannelLookup finds channels referenced by a link. A missing channel is
// reported as (nil, nil).
type ChannelLookup interface {
	Find(ctx context.Context, id int) (*models.Channel, error)
}

type Options struct {
	MaxOpeningClosingTimeS int
}

type Translator struct {
	lookup  ChannelLookup
	maxTime int
}

func NewTranslator(lookup ChannelLookup, opts Options) *Translator {
	maxTime := opts.MaxOpeningClosingTimeS
	if maxTime <= 0 {
		maxTime = DefaultMaxOpeningClosingTimeS
	}
	return &Translator{lookup: lookup, maxTime: maxTime}
}

// write is a pending assignment of one parameter slot (0-based).
type write struct {
	ch    *models.Channel
	slot  int
	value int32
}

// plan collects every write of one SetParamsFromConfig call so nothing is
// mutated until all keys have been validated.
type plan struct {
	primary *models.Channel
	writes  []write
	fetched map[int]*models.Channel
	order   []int
}

func (p *plan) set(ch *models.Channel, slot int, value int32) {
	p.writes = append(p.writes, write{ch: ch, slot: slot, value: value})
	if ch == p.primary {
		return
	}
	if _, seen := p.fetched[ch.ID]; !seen {
		p.fetched[ch.ID] = ch
	}
	for _, id := range p.order {
		if id == ch.ID {
			return
		}
	}
	p.order = append(p.order, ch.ID)
}

// current returns the slot value as it will be after the writes planned so far.
func (p *plan) current(ch *models.Channel, slot int) int32 {
	v := ch.Params()[slot]
	for _, w := range p.writes {
		if w.ch == ch && w.slot == slot {
			v = w.value
		}
	}
	return v
}

func (p *plan) apply() []*models.Channel {
	for _, w := range p.writes {
		params := w.ch.Params()
		params[w.slot] = w.value
		w.ch.SetParams(params)
	}
	out := make([]*models.Channel, 0, len(p.order)+1)
	out = append(out, p.primary)
	for _, id := range p.order {
		out = append(out, p.fetched[id])
	}
	return out
}

// SetParamsFromConfig writes cfg into ch and, for opening-sensor links, into the
// counterpart channels. It returns every mutated channel with ch first. On error
// no channel is modified.
func (t *Translator) SetParamsFromConfig(ctx context.Context, ch *models.Channel, cfg Config) ([]*models.Channel, error) {
	if ch == nil {
		return nil, fmt.Errorf("%w: nil channel", ErrInvalidConfigValue)
	}
	p := &plan{primary: ch, fetched: map[int]*models.Channel{}}
	for _, key := range keyOrder {
		raw, ok := cfg[key]
		if !ok {
			continue
		}
		if err := t.plan(ctx, p, key, raw); err != nil {
			return nil, err
		}
	}
	return p.apply(), nil
}

func (t *Translator) plan(ctx context.Context, p *plan, key string, raw any) error {
	ch := p.primary
	switch key {
	case KeyOpeningTimeS, KeyClosingTimeS:
		if !isShutter(ch.Function) {
			return unsupportedKey(key, ch)
		}
		v, err := deciseconds(key, raw, 0, t.maxTime*10)
		if err != nil {
			return err
		}
		slot := 0
		if key == KeyClosingTimeS {
			slot = 2
		}
		p.set(ch, slot, v)
	case KeyRelayTimeS:
		limit, ok := relayTimeMax[ch.Function]
		if !ok {
			return unsupportedKey(key, ch)
		}
		v, err := deciseconds(key, raw, 0, limit)
		if err != nil {
			return err
		}
		p.set(ch, 0, v)
	case KeyInvertedLogic:
		if !invertible(ch.Function) {
			return unsupportedKey(key, ch)
		}
		v, err := flag(key, raw)
		if err != nil {
			return err
		}
		p.set(ch, 2, v)
	case KeyTemperatureAdjustment:
		if ch.Function != models.FuncThermometer {
			return unsupportedKey(key, ch)
		}
		v, err := centidegrees(key, raw)
		if err != nil {
			return err
		}
		p.set(ch, 1, v)
	case KeyOpeningSensorChannelID:
		return t.planLink(ctx, p, raw)
	}
	return nil
}

// GetConfigFromParams renders the parameter slots of ch as config.
func (t *Translator) GetConfigFromParams(_ context.Context, ch *models.Channel) (Config, error) {
	if ch == nil {
		return nil, fmt.Errorf("%w: nil channel", ErrInvalidConfigValue)
	}
	cfg := Config{}
	if isShutter(ch.Function) {
		cfg[KeyOpeningTimeS] = float64(ch.Param1) / 10
		cfg[KeyClosingTimeS] = float64(ch.Param3) / 10
	}
	if _, ok := relayTimeMax[ch.Function]; ok {
		cfg[KeyRelayTimeS] = float64(ch.Param1) / 10
	}
	if invertible(ch.Function) {
		cfg[KeyInvertedLogic] = ch.Param3 != 0
	}
	if ch.Function == models.FuncThermometer {
		cfg[KeyTemperatureAdjustment] = float64(ch.Param2) / 100
	}
	if side, ok := linkSideOf(ch.Function); ok {
		if id := ch.Params()[side.self]; id != 0 {
			cfg[KeyOpeningSensorChannelID] = int(id)
		} else {
			cfg[KeyOpeningSensorChannelID] = nil
		}
	}
	return cfg, nil
}

// Keys lists the config keys fn understands.
func Keys(fn models.ChannelFunction) []string {
	var out []string
	for _, key := range keyOrder {
		if supports(fn, key) {
			out = append(out, key)
		}
	}
	return out
}

func supports(fn models.ChannelFunction, key string) bool {
	switch key {
	case KeyOpeningTimeS, KeyClosingTimeS:
		return isShutter(fn)
	case KeyRelayTimeS:
		_, ok := relayTimeMax[fn]
		return ok
	case KeyInvertedLogic:
		return invertible(fn)
	case KeyTemperatureAdjustment:
		return fn == models.FuncThermometer
	case KeyOpeningSensorChannelID:
		_, ok := linkSideOf(fn)
		return ok
	}
	return false
}

func unsupportedKey(key string, ch *models.Channel) error {
	return fmt.Errorf("%w: %s on channel %d (%s)", ErrUnsupportedConfigForFunction, key, ch.ID, ch.Function)
}
