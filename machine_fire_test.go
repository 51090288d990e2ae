package statemill

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// Parameter validation ordering

func TestValidationRunsBeforeGuards(t *testing.T) {
	guardCalled := false

	m := New[State, Trigger](StateA)
	m.SetTriggerParameters(TriggerWith1[int](TriggerX))
	m.Configure(StateA).PermitIf(TriggerX, StateB, func(args []any) error {
		guardCalled = true
		return nil
	})

	err := m.Fire(TriggerX, "not an int")
	var typeErr *ParameterTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected ParameterTypeError, got %v", err)
	}
	if guardCalled {
		t.Error("guard must not run when argument validation fails")
	}
	if m.State() != StateA {
		t.Errorf("expected state to remain StateA, got %v", m.State())
	}
}

func TestValidationRunsBeforeActions(t *testing.T) {
	exitCalled := false
	entryCalled := false

	m := New[State, Trigger](StateA)
	m.SetTriggerParameters(TriggerWith1[int](TriggerX))
	m.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExit(func(ctx context.Context, tr Transition[State, Trigger]) error {
			exitCalled = true
			return nil
		})
	m.Configure(StateB).
		OnEntry(func(ctx context.Context, tr Transition[State, Trigger]) error {
			entryCalled = true
			return nil
		})

	if err := m.Fire(TriggerX); err == nil {
		t.Fatal("expected validation error for missing argument")
	}
	if exitCalled || entryCalled {
		t.Error("no action may run when argument validation fails")
	}
}

func TestFireZeroArity(t *testing.T) {
	m := New[State, Trigger](StateA)
	m.SetTriggerParameters(TriggerWith0(TriggerX))
	m.Configure(StateA).PermitReentry(TriggerX)

	if err := m.Fire(TriggerX); err != nil {
		t.Errorf("expected zero-arity fire with no arguments to succeed, got %v", err)
	}

	err := m.Fire(TriggerX, 1)
	var countErr *ParameterCountError
	if !errors.As(err, &countErr) {
		t.Fatalf("expected ParameterCountError, got %v", err)
	}
	if countErr.Expected != 0 || countErr.Actual != 1 {
		t.Errorf("expected count error (0, 1), got (%d, %d)", countErr.Expected, countErr.Actual)
	}
}

func TestFireMissingArgument(t *testing.T) {
	m := New[State, Trigger](StateA)
	m.SetTriggerParameters(TriggerWith1[int](TriggerX))
	m.Configure(StateA).Permit(TriggerX, StateB)

	err := m.Fire(TriggerX)
	var countErr *ParameterCountError
	if !errors.As(err, &countErr) {
		t.Fatalf("expected ParameterCountError, got %v", err)
	}
	if countErr.Expected != 1 || countErr.Actual != 0 {
		t.Errorf("expected count error (1, 0), got (%d, %d)", countErr.Expected, countErr.Actual)
	}
}

func TestFireUnregisteredTriggerAcceptsAnyArgs(t *testing.T) {
	m := New[State, Trigger](StateA)
	m.Configure(StateA).Permit(TriggerX, StateB)

	if err := m.Fire(TriggerX, "anything", 42, nil); err != nil {
		t.Errorf("triggers without registered parameters accept any arguments, got %v", err)
	}
}

// Multi-signature registration

func TestMultipleSignaturesPerTrigger(t *testing.T) {
	m := New[State, Trigger](StateA)
	m.SetTriggerParameters(TriggerWith1[int](TriggerX))
	m.SetTriggerParameters(TriggerWith2[int, string](TriggerX))
	m.Configure(StateA).PermitReentry(TriggerX)

	if err := m.Fire(TriggerX, 42); err != nil {
		t.Errorf("expected one-argument form to validate, got %v", err)
	}
	if err := m.Fire(TriggerX, 42, "A123"); err != nil {
		t.Errorf("expected two-argument form to validate, got %v", err)
	}

	// Wrong type at the matching arity reports the type error, not a count
	// error against the other signature.
	err := m.Fire(TriggerX, "abc")
	var typeErr *ParameterTypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected ParameterTypeError, got %v", err)
	}

	// No signature matches a three-argument fire.
	if err := m.Fire(TriggerX, 1, "a", true); err == nil {
		t.Error("expected error for unmatched arity")
	}
}

func TestSetTriggerParametersDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate (trigger, signature) registration")
		}
	}()

	m := New[State, Trigger](StateA)
	m.SetTriggerParameters(TriggerWith1[int](TriggerX))
	m.SetTriggerParameters(TriggerWith1[int](TriggerX))
}

func TestTriggerParametersFor(t *testing.T) {
	m := New[State, Trigger](StateA)
	p := TriggerWith2[int, string](TriggerX)
	m.SetTriggerParameters(p)

	got, ok := m.TriggerParametersFor(p.Key())
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if got.Arity() != 2 {
		t.Errorf("expected arity 2, got %d", got.Arity())
	}

	other := TriggerWith1[int](TriggerX)
	if _, ok := m.TriggerParametersFor(other.Key()); ok {
		t.Error("expected lookup under a different signature to fail")
	}
}

func TestSetParameterValidatorOverride(t *testing.T) {
	m := New[State, Trigger](StateA)
	m.SetTriggerParameters(TriggerWith1[int](TriggerX))
	m.Configure(StateA).PermitReentry(TriggerX)
	m.SetParameterValidator(rejectingValidator{})

	if err := m.Fire(TriggerX, 42); err == nil {
		t.Error("expected machine-level validator to reject a valid argument")
	}

	m.SetParameterValidator(nil)
	if err := m.Fire(TriggerX, 42); err != nil {
		t.Errorf("expected default validation after clearing the override, got %v", err)
	}
}

// Entry actions receiving parameters

func TestOnEntryFromReceivesParameters(t *testing.T) {
	var got []any

	m := New[State, Trigger](StateA)
	m.SetTriggerParameters(TriggerWith2[int, string](TriggerX))
	m.Configure(StateA).Permit(TriggerX, StateB)
	m.Configure(StateB).
		OnEntryFrom(TriggerX, func(ctx context.Context, tr Transition[State, Trigger]) error {
			got = tr.Parameters
			return nil
		}).
		OnEntryFrom(TriggerY, func(ctx context.Context, tr Transition[State, Trigger]) error {
			t.Error("entry action bound to TriggerY must not run")
			return nil
		})

	if err := m.Fire(TriggerX, 42, "A123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 42 || got[1] != "A123" {
		t.Errorf("expected parameters [42 A123], got %v", got)
	}
}

// Context handling

func TestFireCtxCancelled(t *testing.T) {
	m := New[State, Trigger](StateA)
	m.Configure(StateA).Permit(TriggerX, StateB)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.FireCtx(ctx, TriggerX)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if m.State() != StateA {
		t.Errorf("expected state to remain StateA, got %v", m.State())
	}
}

// Queued firing

func TestQueuedFiring(t *testing.T) {
	var order []string

	m := NewWithMode[State, Trigger](StateA, FiringQueued)
	m.Configure(StateA).
		Permit(TriggerX, StateB).
		OnExit(func(ctx context.Context, tr Transition[State, Trigger]) error {
			order = append(order, "ExitA")
			// Firing from inside an action queues behind the current event.
			if err := m.Fire(TriggerY); err != nil {
				return err
			}
			order = append(order, "AfterNestedFire")
			return nil
		})
	m.Configure(StateB).
		Permit(TriggerY, StateC).
		OnEntry(func(ctx context.Context, tr Transition[State, Trigger]) error {
			order = append(order, "EnterB")
			return nil
		})
	m.Configure(StateC).
		OnEntry(func(ctx context.Context, tr Transition[State, Trigger]) error {
			order = append(order, "EnterC")
			return nil
		})

	if err := m.Fire(TriggerX); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.State() != StateC {
		t.Errorf("expected final state StateC, got %v", m.State())
	}

	want := []string{"ExitA", "AfterNestedFire", "EnterB", "EnterC"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestQueuedFiringConcurrent(t *testing.T) {
	const fires = 100

	count := 0
	m := NewWithMode[State, Trigger](StateA, FiringQueued)
	m.Configure(StateA).InternalTransition(TriggerX, func(ctx context.Context, tr Transition[State, Trigger]) error {
		count++
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < fires; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Fire(TriggerX)
		}()
	}
	wg.Wait()

	if count != fires {
		t.Errorf("expected %d internal actions, got %d", fires, count)
	}
}
