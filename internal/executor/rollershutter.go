package executor

import "smart_channels/internal/models"

const percentageParam = "percentage"

// shutters are positioned by shutPercent, 0 fully revealed and 100 fully shut.
var shutters = family{
	models.FuncControllingTheRollerShutter: {field: models.FieldShutPercent, onValue: fixed(100)},
	models.FuncControllingTheRoofWindow:    {field: models.FieldShutPercent, onValue: fixed(100)},
}

func NewShutExecutor() ActionExecutor {
	return &variant{action: models.ActionShut, family: shutters, value: onValue}
}

func NewRevealExecutor() ActionExecutor {
	return &variant{action: models.ActionReveal, family: shutters, value: constant(0)}
}

func NewShutPartiallyExecutor() ActionExecutor {
	return &variant{
		action: models.ActionShutPartially,
		family: shutters,
		value: func(_ target, params models.ActionParams) (int, error) {
			return requiredPercent(params, percentageParam)
		},
	}
}

// NewRevealPartiallyExecutor takes the revealed percentage and writes its complement.
func NewRevealPartiallyExecutor() ActionExecutor {
	return &variant{
		action: models.ActionRevealPartially,
		family: shutters,
		value: func(_ target, params models.ActionParams) (int, error) {
			p, err := requiredPercent(params, percentageParam)
			if err != nil {
				return 0, err
			}
			return 100 - p, nil
		},
	}
}

// NewStopExecutor halts the motor; STOP is a plain relay command, not a position.
func NewStopExecutor() ActionExecutor {
	return &variant{
		action: models.ActionStop,
		family: shutters,
		field:  models.FieldChar,
		value:  constant(0),
	}
}
