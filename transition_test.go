package statemill

import "testing"

func TestTransitionIsReentry(t *testing.T) {
	reentry := NewTransition(StateA, StateA, TriggerX, nil)
	if !reentry.IsReentry() {
		t.Error("expected transition with identical source and destination to be a reentry")
	}

	moving := NewTransition(StateA, StateB, TriggerX, nil)
	if moving.IsReentry() {
		t.Error("expected transition between distinct states not to be a reentry")
	}
}

func TestTransitionIsInitial(t *testing.T) {
	initial := NewInitialTransition(StateA, StateB, TriggerX, nil)
	if !initial.IsInitial() {
		t.Error("expected initial transition to report IsInitial")
	}

	regular := NewTransition(StateA, StateB, TriggerX, nil)
	if regular.IsInitial() {
		t.Error("expected regular transition not to report IsInitial")
	}
}

func TestTransitionNilParameters(t *testing.T) {
	tr := NewTransition(StateA, StateB, TriggerX, nil)
	if tr.Parameters == nil {
		t.Error("expected nil parameters to be normalised to an empty slice")
	}
	if len(tr.Parameters) != 0 {
		t.Errorf("expected empty parameters, got %v", tr.Parameters)
	}
}
