package models

import (
	"fmt"
	"strings"
)

// ActionKind is a logical command requested against a channel.
type ActionKind string

const (
	ActionTurnOn          ActionKind = "TURN_ON"
	ActionTurnOff         ActionKind = "TURN_OFF"
	ActionOpen            ActionKind = "OPEN"
	ActionClose           ActionKind = "CLOSE"
	ActionShut            ActionKind = "SHUT"
	ActionReveal          ActionKind = "REVEAL"
	ActionShutPartially   ActionKind = "SHUT_PARTIALLY"
	ActionRevealPartially ActionKind = "REVEAL_PARTIALLY"
	ActionStop            ActionKind = "STOP"
)

// KnownActions lists every action kind in a stable order.
var KnownActions = []ActionKind{
	ActionTurnOn,
	ActionTurnOff,
	ActionOpen,
	ActionClose,
	ActionShut,
	ActionReveal,
	ActionShutPartially,
	ActionRevealPartially,
	ActionStop,
}

// ParseActionKind accepts "turn_on", "TURN_ON", " Turn_On ".
func ParseActionKind(s string) (ActionKind, error) {
	k := ActionKind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range KnownActions {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// ActionParams holds action-specific named values, e.g. brightness or percentage.
type ActionParams map[string]any

// CommandField names the device slot a command value is written to.
type CommandField string

const (
	FieldChar            CommandField = "char"
	FieldBrightness      CommandField = "brightness"
	FieldColorBrightness CommandField = "colorBrightness"
	FieldShutPercent     CommandField = "shutPercent"
)

// CommandValue is the encoded result of an action.
type CommandValue struct {
	Field CommandField `json:"field"`
	Value int          `json:"value"`
}
