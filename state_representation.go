package statemill

import (
	"context"
	"fmt"
)

// stateRepresentation models the configured behaviour of one state: its
// trigger behaviours, actions, and position in the substate hierarchy.
type stateRepresentation[TState, TTrigger comparable] struct {
	state TState

	superstate *stateRepresentation[TState, TTrigger]
	substates  []*stateRepresentation[TState, TTrigger]

	triggerBehaviours map[TTrigger][]triggerBehaviour[TState, TTrigger]

	entryActions      []*entryAction[TState, TTrigger]
	exitActions       []*exitAction[TState, TTrigger]
	activateActions   []*lifecycleAction
	deactivateActions []*lifecycleAction

	hasInitialTransition    bool
	initialTransitionTarget TState
}

func newStateRepresentation[TState, TTrigger comparable](state TState) *stateRepresentation[TState, TTrigger] {
	return &stateRepresentation[TState, TTrigger]{
		state:             state,
		triggerBehaviours: make(map[TTrigger][]triggerBehaviour[TState, TTrigger]),
	}
}

func (sr *stateRepresentation[TState, TTrigger]) addTriggerBehaviour(b triggerBehaviour[TState, TTrigger]) {
	tr := b.trigger()
	sr.triggerBehaviours[tr] = append(sr.triggerBehaviours[tr], b)
}

func (sr *stateRepresentation[TState, TTrigger]) setInitialTransition(target TState) {
	sr.hasInitialTransition = true
	sr.initialTransitionTarget = target
}

// canHandle reports whether the state (or a superstate) has a behaviour for
// the trigger whose guards pass.
func (sr *stateRepresentation[TState, TTrigger]) canHandle(trigger TTrigger, args []any) bool {
	result := sr.findHandler(trigger, args)
	return result != nil && result.handler != nil
}

// findHandler resolves the trigger against this state first, then its
// superstates.
func (sr *stateRepresentation[TState, TTrigger]) findHandler(trigger TTrigger, args []any) *behaviourResult[TState, TTrigger] {
	result := sr.findLocalHandler(trigger, args)
	if result == nil && sr.superstate != nil {
		result = sr.superstate.findHandler(trigger, args)
	}
	return result
}

func (sr *stateRepresentation[TState, TTrigger]) findLocalHandler(trigger TTrigger, args []any) *behaviourResult[TState, TTrigger] {
	behaviours, ok := sr.triggerBehaviours[trigger]
	if !ok {
		return nil
	}

	var matched []triggerBehaviour[TState, TTrigger]
	for _, b := range behaviours {
		if b.guardConditionsMet(args) {
			matched = append(matched, b)
		}
	}

	if len(matched) > 1 {
		return &behaviourResult[TState, TTrigger]{ambiguous: true}
	}
	if len(matched) == 1 {
		return &behaviourResult[TState, TTrigger]{handler: matched[0]}
	}

	var unmet []string
	for _, b := range behaviours {
		unmet = append(unmet, b.unmetGuardConditions(args)...)
	}
	return &behaviourResult[TState, TTrigger]{unmetGuardConditions: unmet}
}

// enter runs entry actions, walking down from the outermost newly entered
// superstate.
func (sr *stateRepresentation[TState, TTrigger]) enter(ctx context.Context, t Transition[TState, TTrigger]) error {
	if t.IsReentry() {
		return sr.executeEntryActions(ctx, t)
	}

	if !sr.includes(t.Source) {
		if sr.superstate != nil {
			if err := sr.superstate.enter(ctx, t); err != nil {
				return err
			}
		}
		return sr.executeEntryActions(ctx, t)
	}

	return nil
}

// exit runs exit actions, walking up until a common superstate with the
// destination is reached.
func (sr *stateRepresentation[TState, TTrigger]) exit(ctx context.Context, t Transition[TState, TTrigger]) error {
	if t.IsReentry() {
		return sr.executeExitActions(ctx, t)
	}

	if !sr.includes(t.Destination) {
		if err := sr.executeExitActions(ctx, t); err != nil {
			return err
		}
		if sr.superstate != nil {
			return sr.superstate.exit(ctx, t)
		}
	}

	return nil
}

func (sr *stateRepresentation[TState, TTrigger]) executeEntryActions(ctx context.Context, t Transition[TState, TTrigger]) error {
	for _, a := range sr.entryActions {
		if err := a.execute(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (sr *stateRepresentation[TState, TTrigger]) executeExitActions(ctx context.Context, t Transition[TState, TTrigger]) error {
	for _, a := range sr.exitActions {
		if err := a.execute(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (sr *stateRepresentation[TState, TTrigger]) activate(ctx context.Context) error {
	if sr.superstate != nil {
		if err := sr.superstate.activate(ctx); err != nil {
			return err
		}
	}
	for _, a := range sr.activateActions {
		if err := a.execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (sr *stateRepresentation[TState, TTrigger]) deactivate(ctx context.Context) error {
	for _, a := range sr.deactivateActions {
		if err := a.execute(ctx); err != nil {
			return err
		}
	}
	if sr.superstate != nil {
		return sr.superstate.deactivate(ctx)
	}
	return nil
}

// includes reports whether the state or any of its substates is the given
// state.
func (sr *stateRepresentation[TState, TTrigger]) includes(state TState) bool {
	if sr.state == state {
		return true
	}
	for _, sub := range sr.substates {
		if sub.includes(state) {
			return true
		}
	}
	return false
}

// isIncludedIn reports whether the state is the given state or one of its
// substates.
func (sr *stateRepresentation[TState, TTrigger]) isIncludedIn(state TState) bool {
	if sr.state == state {
		return true
	}
	if sr.superstate != nil {
		return sr.superstate.isIncludedIn(state)
	}
	return false
}

// permittedTriggers returns the triggers whose guards currently pass, local
// behaviours shadowing superstate ones.
func (sr *stateRepresentation[TState, TTrigger]) permittedTriggers(args []any) []TTrigger {
	result := sr.localPermittedTriggers(args)

	if sr.superstate != nil {
		for _, tr := range sr.superstate.permittedTriggers(args) {
			if !containsTrigger(result, tr) {
				result = append(result, tr)
			}
		}
	}

	return result
}

func (sr *stateRepresentation[TState, TTrigger]) localPermittedTriggers(args []any) []TTrigger {
	var result []TTrigger
	for tr, behaviours := range sr.triggerBehaviours {
		for _, b := range behaviours {
			if b.guardConditionsMet(args) {
				result = append(result, tr)
				break
			}
		}
	}
	return result
}

func (sr *stateRepresentation[TState, TTrigger]) String() string {
	return fmt.Sprintf("%v", sr.state)
}

func containsTrigger[TTrigger comparable](triggers []TTrigger, trigger TTrigger) bool {
	for _, t := range triggers {
		if t == trigger {
			return true
		}
	}
	return false
}
