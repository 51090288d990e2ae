package statemill

import "context"

// triggerBehaviour is what a state does in response to one trigger: change
// state, re-enter, run an internal action, compute a destination, or ignore.
type triggerBehaviour[TState, TTrigger comparable] interface {
	trigger() TTrigger
	guard() TransitionGuard
	guardConditionsMet(args []any) bool
	unmetGuardConditions(args []any) []string
}

type behaviourBase[TTrigger comparable] struct {
	tr TTrigger
	g  TransitionGuard
}

func (b *behaviourBase[TTrigger]) trigger() TTrigger      { return b.tr }
func (b *behaviourBase[TTrigger]) guard() TransitionGuard { return b.g }

func (b *behaviourBase[TTrigger]) guardConditionsMet(args []any) bool {
	return b.g.ConditionsMet(args)
}

func (b *behaviourBase[TTrigger]) unmetGuardConditions(args []any) []string {
	return b.g.UnmetConditions(args)
}

// transitioningBehaviour moves the machine to a fixed destination state.
type transitioningBehaviour[TState, TTrigger comparable] struct {
	behaviourBase[TTrigger]

	destination TState
}

func newTransitioningBehaviour[TState, TTrigger comparable](tr TTrigger, destination TState, guard TransitionGuard) *transitioningBehaviour[TState, TTrigger] {
	return &transitioningBehaviour[TState, TTrigger]{
		behaviourBase: behaviourBase[TTrigger]{tr: tr, g: guard},
		destination:   destination,
	}
}

// reentryBehaviour exits and re-enters the current state.
type reentryBehaviour[TState, TTrigger comparable] struct {
	behaviourBase[TTrigger]

	destination TState
}

func newReentryBehaviour[TState, TTrigger comparable](tr TTrigger, destination TState, guard TransitionGuard) *reentryBehaviour[TState, TTrigger] {
	return &reentryBehaviour[TState, TTrigger]{
		behaviourBase: behaviourBase[TTrigger]{tr: tr, g: guard},
		destination:   destination,
	}
}

// ignoredBehaviour swallows the trigger without a transition.
type ignoredBehaviour[TState, TTrigger comparable] struct {
	behaviourBase[TTrigger]
}

func newIgnoredBehaviour[TState, TTrigger comparable](tr TTrigger, guard TransitionGuard) *ignoredBehaviour[TState, TTrigger] {
	return &ignoredBehaviour[TState, TTrigger]{
		behaviourBase: behaviourBase[TTrigger]{tr: tr, g: guard},
	}
}

// dynamicBehaviour computes the destination from the trigger arguments.
type dynamicBehaviour[TState, TTrigger comparable] struct {
	behaviourBase[TTrigger]

	destination func(args []any) TState
	info        DynamicTransitionInfo
}

func newDynamicBehaviour[TState, TTrigger comparable](
	tr TTrigger,
	destination func(args []any) TState,
	guard TransitionGuard,
	info DynamicTransitionInfo,
) *dynamicBehaviour[TState, TTrigger] {
	return &dynamicBehaviour[TState, TTrigger]{
		behaviourBase: behaviourBase[TTrigger]{tr: tr, g: guard},
		destination:   destination,
		info:          info,
	}
}

func (d *dynamicBehaviour[TState, TTrigger]) destinationState(args []any) TState {
	return d.destination(args)
}

// internalBehaviour runs an action without exiting or entering any state.
type internalBehaviour[TState, TTrigger comparable] struct {
	behaviourBase[TTrigger]

	action TransitionAction[TState, TTrigger]
}

// TransitionAction is an action run as part of a transition.
type TransitionAction[TState, TTrigger comparable] func(ctx context.Context, t Transition[TState, TTrigger]) error

func newInternalBehaviour[TState, TTrigger comparable](tr TTrigger, guard TransitionGuard, action TransitionAction[TState, TTrigger]) *internalBehaviour[TState, TTrigger] {
	return &internalBehaviour[TState, TTrigger]{
		behaviourBase: behaviourBase[TTrigger]{tr: tr, g: guard},
		action:        action,
	}
}

func (b *internalBehaviour[TState, TTrigger]) execute(ctx context.Context, t Transition[TState, TTrigger]) error {
	if b.action == nil {
		return nil
	}
	return b.action(ctx, t)
}

// behaviourResult is the outcome of resolving a trigger against a state and
// its superstates.
type behaviourResult[TState, TTrigger comparable] struct {
	handler              triggerBehaviour[TState, TTrigger]
	unmetGuardConditions []string
	ambiguous            bool
}
