package executor

import (
	"fmt"

	"smart_channels/internal/models"
)

// Resolver maps an action kind to its executor. The table is fixed at construction.
type Resolver struct {
	executors map[models.ActionKind]ActionExecutor
	order     []models.ActionKind
}

// NewResolver registers the given executors. Two executors for the same
// action is a wiring bug and panics.
func NewResolver(executors ...ActionExecutor) *Resolver {
	r := &Resolver{executors: make(map[models.ActionKind]ActionExecutor, len(executors))}
	for _, e := range executors {
		kind := e.SupportedAction()
		if _, dup := r.executors[kind]; dup {
			panic(fmt.Sprintf("executor: duplicate executor for %s", kind))
		}
		r.executors[kind] = e
		r.order = append(r.order, kind)
	}
	return r
}

// NewDefaultResolver registers every built-in executor.
func NewDefaultResolver() *Resolver {
	return NewResolver(
		NewTurnOnExecutor(),
		NewTurnOffExecutor(),
		NewOpenExecutor(),
		NewCloseExecutor(),
		NewShutExecutor(),
		NewRevealExecutor(),
		NewShutPartiallyExecutor(),
		NewRevealPartiallyExecutor(),
		NewStopExecutor(),
	)
}

func (r *Resolver) Resolve(kind models.ActionKind) (ActionExecutor, error) {
	e, ok := r.executors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoExecutorForAction, kind)
	}
	return e, nil
}

// Actions lists registered action kinds in registration order.
func (r *Resolver) Actions() []models.ActionKind {
	out := make([]models.ActionKind, len(r.order))
	copy(out, r.order)
	return out
}

// SupportedActions lists the actions whose executor supports ch.
func (r *Resolver) SupportedActions(ch *models.Channel) []models.ActionKind {
	out := make([]models.ActionKind, 0, len(r.order))
	for _, kind := range r.order {
		if r.executors[kind].IsSupported(ch) {
			out = append(out, kind)
		}
	}
	return out
}
