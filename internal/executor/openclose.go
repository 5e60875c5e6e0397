package executor

import "smart_channels/internal/models"

var openable = family{
	models.FuncControllingTheGatewayLock: {field: models.FieldChar, onValue: fixed(1)},
	models.FuncControllingTheGate:        {field: models.FieldChar, onValue: fixed(1)},
	models.FuncControllingTheGarageDoor:  {field: models.FieldChar, onValue: fixed(1)},
	models.FuncControllingTheDoorLock:    {field: models.FieldChar, onValue: fixed(1)},
	models.FuncValveOpenClose:            {field: models.FieldChar, onValue: fixed(1)},
}

func NewOpenExecutor() ActionExecutor {
	return &variant{action: models.ActionOpen, family: openable, value: onValue}
}

// NewCloseExecutor only closes valves; gates and locks are impulse-driven and
// can only be opened.
func NewCloseExecutor() ActionExecutor {
	return &variant{
		action: models.ActionClose,
		family: openable,
		only:   map[models.ChannelFunction]bool{models.FuncValveOpenClose: true},
		value:  constant(0),
	}
}
