package statemill

// Transition describes a single state transition.
type Transition[TState, TTrigger comparable] struct {
	// Source is the state transitioned from.
	Source TState

	// Destination is the state transitioned to.
	Destination TState

	// Trigger is the trigger that caused the transition.
	Trigger TTrigger

	// Parameters are the validated trigger arguments, in firing order.
	Parameters []any

	isInitial bool
}

// NewTransition creates a transition.
func NewTransition[TState, TTrigger comparable](source, destination TState, trigger TTrigger, parameters []any) Transition[TState, TTrigger] {
	if parameters == nil {
		parameters = []any{}
	}
	return Transition[TState, TTrigger]{
		Source:      source,
		Destination: destination,
		Trigger:     trigger,
		Parameters:  parameters,
	}
}

// NewInitialTransition creates a transition that enters a composite state's
// configured initial substate.
func NewInitialTransition[TState, TTrigger comparable](source, destination TState, trigger TTrigger, parameters []any) Transition[TState, TTrigger] {
	t := NewTransition(source, destination, trigger, parameters)
	t.isInitial = true
	return t
}

// IsReentry reports whether the transition re-enters its source state.
func (t Transition[TState, TTrigger]) IsReentry() bool {
	return t.Source == t.Destination
}

// IsInitial reports whether this is an initial transition.
func (t Transition[TState, TTrigger]) IsInitial() bool {
	return t.isInitial
}
