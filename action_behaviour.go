package statemill

import "context"

// entryAction runs when a state is entered. fromTrigger restricts execution
// to transitions caused by a particular trigger (OnEntryFrom).
type entryAction[TState, TTrigger comparable] struct {
	action      TransitionAction[TState, TTrigger]
	description InvocationInfo
	fromTrigger *TTrigger
}

func (a *entryAction[TState, TTrigger]) execute(ctx context.Context, t Transition[TState, TTrigger]) error {
	if a.fromTrigger != nil && t.Trigger != *a.fromTrigger {
		return nil
	}
	if a.action == nil {
		return nil
	}
	return a.action(ctx, t)
}

// exitAction runs when a state is exited.
type exitAction[TState, TTrigger comparable] struct {
	action      TransitionAction[TState, TTrigger]
	description InvocationInfo
}

func (a *exitAction[TState, TTrigger]) execute(ctx context.Context, t Transition[TState, TTrigger]) error {
	if a.action == nil {
		return nil
	}
	return a.action(ctx, t)
}

// lifecycleAction runs on machine activation or deactivation.
type lifecycleAction struct {
	action      func(ctx context.Context) error
	description InvocationInfo
}

func (a *lifecycleAction) execute(ctx context.Context) error {
	if a.action == nil {
		return nil
	}
	return a.action(ctx)
}
