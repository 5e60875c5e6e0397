package executor

import "smart_channels/internal/models"

const (
	brightnessParam      = "brightness"
	colorBrightnessParam = "colorBrightness"
)

// onOff lists the functions that can be switched on and off.
var onOff = family{
	models.FuncPowerSwitch:          {field: models.FieldChar, onValue: fixed(1)},
	models.FuncLightSwitch:          {field: models.FieldChar, onValue: fixed(1)},
	models.FuncStaircaseTimer:       {field: models.FieldChar, onValue: fixed(1)},
	models.FuncDimmer:               {field: models.FieldBrightness, onValue: percentOr(brightnessParam, 100)},
	models.FuncDimmerAndRGBLighting: {field: models.FieldBrightness, onValue: percentOr(brightnessParam, 100)},
	models.FuncRGBLighting:          {field: models.FieldColorBrightness, onValue: percentOr(colorBrightnessParam, 100)},
}

func NewTurnOnExecutor() ActionExecutor {
	return &variant{action: models.ActionTurnOn, family: onOff, value: onValue}
}

// NewTurnOffExecutor targets exactly what TURN_ON targets and always writes 0.
// Params are not validated.
func NewTurnOffExecutor() ActionExecutor {
	return &variant{action: models.ActionTurnOff, family: onOff, value: constant(0)}
}
