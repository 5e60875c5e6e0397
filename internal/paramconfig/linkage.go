package paramconfig

import (
	"context"
	"fmt"

	"smart_channels/internal/models"
)

// sensorOf pairs each controlling function with its opening sensor.
var sensorOf = map[models.ChannelFunction]models.ChannelFunction{
	models.FuncControllingTheGatewayLock:   models.FuncOpeningSensorGateway,
	models.FuncControllingTheGate:          models.FuncOpeningSensorGate,
	models.FuncControllingTheGarageDoor:    models.FuncOpeningSensorGarageDoor,
	models.FuncControllingTheDoorLock:      models.FuncOpeningSensorDoor,
	models.FuncControllingTheRollerShutter: models.FuncOpeningSensorRollerShutter,
	models.FuncControllingTheRoofWindow:    models.FuncOpeningSensorRoofWindow,
}

var controllerOf = func() map[models.ChannelFunction]models.ChannelFunction {
	m := make(map[models.ChannelFunction]models.ChannelFunction, len(sensorOf))
	for c, s := range sensorOf {
		m[s] = c
	}
	return m
}()

// linkSide says where a channel keeps its own reference to the counterpart
// (self) and where the counterpart keeps the reference back (other).
// Sensors store the controller id in param1; controllers store the sensor id in param2.
type linkSide struct {
	self    int
	other   int
	partner models.ChannelFunction
}

func linkSideOf(fn models.ChannelFunction) (linkSide, bool) {
	if s, ok := sensorOf[fn]; ok {
		return linkSide{self: 1, other: 0, partner: s}, true
	}
	if c, ok := controllerOf[fn]; ok {
		return linkSide{self: 0, other: 1, partner: c}, true
	}
	return linkSide{}, false
}

// PairedFunction returns the function a channel with fn can be linked to.
func PairedFunction(fn models.ChannelFunction) (models.ChannelFunction, bool) {
	side, ok := linkSideOf(fn)
	return side.partner, ok
}

func (t *Translator) planLink(ctx context.Context, p *plan, raw any) error {
	ch := p.primary
	side, ok := linkSideOf(ch.Function)
	if !ok {
		return unsupportedKey(KeyOpeningSensorChannelID, ch)
	}
	id, err := channelID(KeyOpeningSensorChannelID, raw)
	if err != nil {
		return err
	}
	if id == ch.ID {
		return fmt.Errorf("%w: channel %d cannot be linked to itself", ErrInvalidChannelLink, ch.ID)
	}

	var counterpart *models.Channel
	if id != 0 {
		counterpart, err = t.find(ctx, p, id)
		if err != nil {
			return err
		}
		if counterpart == nil {
			return fmt.Errorf("%w: channel %d does not exist", ErrInvalidChannelLink, id)
		}
		if counterpart.UserID != ch.UserID {
			return fmt.Errorf("%w: channel %d belongs to another user", ErrInvalidChannelLink, id)
		}
		if counterpart.Function != side.partner {
			return fmt.Errorf("%w: channel %d is %s, expected %s", ErrInvalidChannelLink, id, counterpart.Function, side.partner)
		}
	}

	// Drop ch's previous counterpart if it still points back at ch.
	if prev := int(p.current(ch, side.self)); prev != 0 && prev != id {
		old, err := t.find(ctx, p, prev)
		if err != nil {
			return err
		}
		if old != nil && int(p.current(old, side.other)) == ch.ID {
			p.set(old, side.other, 0)
		}
	}

	if counterpart != nil {
		// The counterpart may be linked to a different channel of ch's kind.
		if prev := int(p.current(counterpart, side.other)); prev != 0 && prev != ch.ID {
			old, err := t.find(ctx, p, prev)
			if err != nil {
				return err
			}
			if old != nil && int(p.current(old, side.self)) == counterpart.ID {
				p.set(old, side.self, 0)
			}
		}
		p.set(counterpart, side.other, int32(ch.ID))
	}
	p.set(ch, side.self, int32(id))
	return nil
}

// find returns a channel already touched by the plan or asks the lookup.
func (t *Translator) find(ctx context.Context, p *plan, id int) (*models.Channel, error) {
	if id == p.primary.ID {
		return p.primary, nil
	}
	if ch, ok := p.fetched[id]; ok {
		return ch, nil
	}
	if t.lookup == nil {
		return nil, nil
	}
	ch, err := t.lookup.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find channel %d: %w", id, err)
	}
	if ch != nil {
		p.fetched[id] = ch
	}
	return ch, nil
}
