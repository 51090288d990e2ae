package statemill

import (
	"context"
	"fmt"
)

// StateConfig is the fluent interface for configuring one state's behaviour.
// Configuration is expected to happen once, from a single goroutine, before
// the machine starts firing; misconfiguration panics.
type StateConfig[TState, TTrigger comparable] struct {
	representation *stateRepresentation[TState, TTrigger]
	lookup         func(TState) *stateRepresentation[TState, TTrigger]
}

// State returns the state being configured.
func (sc *StateConfig[TState, TTrigger]) State() TState {
	return sc.representation.state
}

// Permit configures a transition to the destination state when the trigger
// fires.
func (sc *StateConfig[TState, TTrigger]) Permit(trigger TTrigger, destination TState) *StateConfig[TState, TTrigger] {
	sc.enforceNotIdentityTransition(destination)
	sc.representation.addTriggerBehaviour(
		newTransitioningBehaviour(trigger, destination, EmptyGuard),
	)
	return sc
}

// PermitIf configures a guarded transition to the destination state. The
// guard receives the fired trigger arguments and returns nil when the
// condition is met.
func (sc *StateConfig[TState, TTrigger]) PermitIf(trigger TTrigger, destination TState, guard GuardFunc, guardDescription ...string) *StateConfig[TState, TTrigger] {
	sc.enforceNotIdentityTransition(destination)
	sc.representation.addTriggerBehaviour(
		newTransitioningBehaviour(trigger, destination, NewTransitionGuard(guard, guardDescription...)),
	)
	return sc
}

// PermitReentry configures the state to exit and re-enter itself when the
// trigger fires. Entry and exit actions run.
func (sc *StateConfig[TState, TTrigger]) PermitReentry(trigger TTrigger) *StateConfig[TState, TTrigger] {
	sc.representation.addTriggerBehaviour(
		newReentryBehaviour(trigger, sc.representation.state, EmptyGuard),
	)
	return sc
}

// PermitReentryIf is PermitReentry with a guard.
func (sc *StateConfig[TState, TTrigger]) PermitReentryIf(trigger TTrigger, guard GuardFunc, guardDescription ...string) *StateConfig[TState, TTrigger] {
	sc.representation.addTriggerBehaviour(
		newReentryBehaviour(trigger, sc.representation.state, NewTransitionGuard(guard, guardDescription...)),
	)
	return sc
}

// Ignore configures the state to accept the trigger without transitioning.
func (sc *StateConfig[TState, TTrigger]) Ignore(trigger TTrigger) *StateConfig[TState, TTrigger] {
	sc.representation.addTriggerBehaviour(
		newIgnoredBehaviour[TState](trigger, EmptyGuard),
	)
	return sc
}

// IgnoreIf is Ignore with a guard.
func (sc *StateConfig[TState, TTrigger]) IgnoreIf(trigger TTrigger, guard GuardFunc, guardDescription ...string) *StateConfig[TState, TTrigger] {
	sc.representation.addTriggerBehaviour(
		newIgnoredBehaviour[TState](trigger, NewTransitionGuard(guard, guardDescription...)),
	)
	return sc
}

// PermitDynamic configures a transition whose destination is computed from
// the fired trigger arguments.
func (sc *StateConfig[TState, TTrigger]) PermitDynamic(
	trigger TTrigger,
	selector func(args []any) TState,
	possibleDestinations ...DynamicStateInfo,
) *StateConfig[TState, TTrigger] {
	info := DynamicTransitionInfo{
		transitionInfoBase: transitionInfoBase{
			Trigger: TriggerInfo{UnderlyingTrigger: trigger},
		},
		DestinationSelector:       describeFunc(selector, ""),
		PossibleDestinationStates: possibleDestinations,
	}
	sc.representation.addTriggerBehaviour(
		newDynamicBehaviour(trigger, selector, EmptyGuard, info),
	)
	return sc
}

// PermitDynamicIf is PermitDynamic with a guard.
func (sc *StateConfig[TState, TTrigger]) PermitDynamicIf(
	trigger TTrigger,
	selector func(args []any) TState,
	guard GuardFunc,
	guardDescription ...string,
) *StateConfig[TState, TTrigger] {
	desc := firstOrEmpty(guardDescription)
	info := DynamicTransitionInfo{
		transitionInfoBase: transitionInfoBase{
			Trigger:         TriggerInfo{UnderlyingTrigger: trigger},
			GuardConditions: []InvocationInfo{describeFunc(guard, desc)},
		},
		DestinationSelector: describeFunc(selector, ""),
	}
	sc.representation.addTriggerBehaviour(
		newDynamicBehaviour(trigger, selector, NewTransitionGuard(guard, desc), info),
	)
	return sc
}

// InternalTransition configures an action to run on the trigger without
// exiting or entering the state.
func (sc *StateConfig[TState, TTrigger]) InternalTransition(trigger TTrigger, action TransitionAction[TState, TTrigger]) *StateConfig[TState, TTrigger] {
	sc.representation.addTriggerBehaviour(
		newInternalBehaviour(trigger, EmptyGuard, action),
	)
	return sc
}

// InternalTransitionIf is InternalTransition with a guard.
func (sc *StateConfig[TState, TTrigger]) InternalTransitionIf(
	trigger TTrigger,
	guard GuardFunc,
	action TransitionAction[TState, TTrigger],
	guardDescription ...string,
) *StateConfig[TState, TTrigger] {
	sc.representation.addTriggerBehaviour(
		newInternalBehaviour(trigger, NewTransitionGuard(guard, guardDescription...), action),
	)
	return sc
}

// OnEntry configures an action to run when the state is entered. The
// transition carries the validated trigger parameters:
//
//	OnEntry(func(ctx context.Context, t statemill.Transition[State, Trigger]) error {
//	    amount := t.Parameters[0].(int)
//	    ...
//	})
func (sc *StateConfig[TState, TTrigger]) OnEntry(action TransitionAction[TState, TTrigger]) *StateConfig[TState, TTrigger] {
	sc.representation.entryActions = append(sc.representation.entryActions, &entryAction[TState, TTrigger]{
		action:      action,
		description: describeFunc(action, ""),
	})
	return sc
}

// OnEntryFrom configures an entry action that only runs when entry was caused
// by the given trigger.
func (sc *StateConfig[TState, TTrigger]) OnEntryFrom(trigger TTrigger, action TransitionAction[TState, TTrigger]) *StateConfig[TState, TTrigger] {
	tr := trigger
	sc.representation.entryActions = append(sc.representation.entryActions, &entryAction[TState, TTrigger]{
		action:      action,
		description: describeFunc(action, ""),
		fromTrigger: &tr,
	})
	return sc
}

// OnExit configures an action to run when the state is exited.
func (sc *StateConfig[TState, TTrigger]) OnExit(action TransitionAction[TState, TTrigger]) *StateConfig[TState, TTrigger] {
	sc.representation.exitActions = append(sc.representation.exitActions, &exitAction[TState, TTrigger]{
		action:      action,
		description: describeFunc(action, ""),
	})
	return sc
}

// OnActivate configures an action to run when the machine is activated while
// this state is current.
func (sc *StateConfig[TState, TTrigger]) OnActivate(action func(ctx context.Context) error) *StateConfig[TState, TTrigger] {
	sc.representation.activateActions = append(sc.representation.activateActions, &lifecycleAction{
		action:      action,
		description: describeFunc(action, ""),
	})
	return sc
}

// OnDeactivate configures an action to run when the machine is deactivated
// while this state is current.
func (sc *StateConfig[TState, TTrigger]) OnDeactivate(action func(ctx context.Context) error) *StateConfig[TState, TTrigger] {
	sc.representation.deactivateActions = append(sc.representation.deactivateActions, &lifecycleAction{
		action:      action,
		description: describeFunc(action, ""),
	})
	return sc
}

// SubstateOf makes this state a substate of the given superstate.
func (sc *StateConfig[TState, TTrigger]) SubstateOf(superstate TState) *StateConfig[TState, TTrigger] {
	superRep := sc.lookup(superstate)

	if superRep.isIncludedIn(sc.representation.state) {
		panic(fmt.Sprintf("circular superstate relationship detected: %v -> %v", sc.representation.state, superstate))
	}

	sc.representation.superstate = superRep
	superRep.substates = append(superRep.substates, sc.representation)
	return sc
}

// InitialTransition configures the substate entered when a transition lands
// on this composite state directly.
func (sc *StateConfig[TState, TTrigger]) InitialTransition(destination TState) *StateConfig[TState, TTrigger] {
	if sc.representation.state == destination {
		panic(fmt.Sprintf("initial transition to self is not allowed: state '%v'", destination))
	}
	if sc.representation.hasInitialTransition {
		panic(fmt.Sprintf("state '%v' already has an initial transition defined", sc.representation.state))
	}
	sc.representation.setInitialTransition(destination)
	return sc
}

func (sc *StateConfig[TState, TTrigger]) enforceNotIdentityTransition(destination TState) {
	if sc.representation.state == destination {
		panic("Permit requires a destination different from the source state; use Ignore or PermitReentry instead")
	}
}
