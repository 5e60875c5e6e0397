package paramconfig

import (
	"fmt"
	"math"

	"github.com/spf13/cast"

	"smart_channels/internal/models"
)

const (
	staircaseMaxDeciseconds = 36000
	impulseMaxDeciseconds   = 600
	temperatureAdjustLimit  = 1000
)

// relayTimeMax maps functions with a relay time to their upper bound in deciseconds.
var relayTimeMax = map[models.ChannelFunction]int{
	models.FuncStaircaseTimer:            staircaseMaxDeciseconds,
	models.FuncControllingTheGatewayLock: impulseMaxDeciseconds,
	models.FuncControllingTheGate:        impulseMaxDeciseconds,
	models.FuncControllingTheGarageDoor:  impulseMaxDeciseconds,
	models.FuncControllingTheDoorLock:    impulseMaxDeciseconds,
}

func isShutter(fn models.ChannelFunction) bool {
	return fn == models.FuncControllingTheRollerShutter || fn == models.FuncControllingTheRoofWindow
}

func invertible(fn models.ChannelFunction) bool {
	switch fn {
	case models.FuncOpeningSensorGateway,
		models.FuncOpeningSensorGate,
		models.FuncOpeningSensorGarageDoor,
		models.FuncOpeningSensorDoor,
		models.FuncOpeningSensorRollerShutter,
		models.FuncOpeningSensorRoofWindow,
		models.FuncNoLiquidSensor:
		return true
	}
	return false
}

func number(key string, raw any) (float64, error) {
	if raw == nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidConfigValue, key)
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidConfigValue, key)
	}
	return f, nil
}

// deciseconds converts seconds to tenths of a second, clamped to [lo, hi].
func deciseconds(key string, raw any, lo, hi int) (int32, error) {
	s, err := number(key, raw)
	if err != nil {
		return 0, err
	}
	return int32(clamp(math.Round(s*10), lo, hi)), nil
}

// centidegrees converts degrees Celsius to hundredths of a degree.
func centidegrees(key string, raw any) (int32, error) {
	c, err := number(key, raw)
	if err != nil {
		return 0, err
	}
	return int32(clamp(math.Round(c*100), -temperatureAdjustLimit, temperatureAdjustLimit)), nil
}

func flag(key string, raw any) (int32, error) {
	b, err := cast.ToBoolE(raw)
	if err != nil || raw == nil {
		return 0, fmt.Errorf("%w: %s must be a boolean", ErrInvalidConfigValue, key)
	}
	if b {
		return 1, nil
	}
	return 0, nil
}

// channelID accepts a positive id, or null/0 meaning "no channel".
func channelID(key string, raw any) (int, error) {
	if raw == nil {
		return 0, nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be a channel id", ErrInvalidConfigValue, key)
	}
	return int(f), nil
}

func clamp(v float64, lo, hi int) float64 {
	if v < float64(lo) {
		return float64(lo)
	}
	if v > float64(hi) {
		return float64(hi)
	}
	return v
}
