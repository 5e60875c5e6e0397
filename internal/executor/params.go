package executor

import (
	"fmt"
	"math"

	"github.com/spf13/cast"

	"smart_channels/internal/models"
)

// intParam reads an integer param; ok is false when the key is absent or null.
// Values outside the int32 range saturate so that later clamping keeps their sign.
func intParam(params models.ActionParams, key string) (n int, ok bool, err error) {
	raw, present := params[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be a number", ErrInvalidActionParams, key)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("%w: %s must be a finite number", ErrInvalidActionParams, key)
	}
	f = math.Max(math.MinInt32, math.Min(f, math.MaxInt32))
	return int(f), true, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// percentOr returns params[key] clamped to [0,100], or def when absent.
func percentOr(key string, def int) func(models.ActionParams) (int, error) {
	return func(params models.ActionParams) (int, error) {
		n, ok, err := intParam(params, key)
		if err != nil {
			return 0, err
		}
		if !ok {
			return def, nil
		}
		return clamp(n, 0, 100), nil
	}
}

// requiredPercent returns params[key] clamped to [0,100]; the key must be present.
func requiredPercent(params models.ActionParams, key string) (int, error) {
	n, ok, err := intParam(params, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidActionParams, key)
	}
	return clamp(n, 0, 100), nil
}

func fixed(n int) func(models.ActionParams) (int, error) {
	return func(models.ActionParams) (int, error) {
		return n, nil
	}
}
