package statemill

import (
	"context"
	"fmt"
	"sync"
)

// FiringMode determines how the machine handles triggers fired while another
// trigger is still being processed.
type FiringMode int

const (
	// FiringImmediate processes triggers synchronously as they arrive. This
	// is the default.
	FiringImmediate FiringMode = iota

	// FiringQueued queues triggers and processes them one at a time.
	FiringQueued
)

// Machine is a finite-state machine that transitions between states of type
// TState in response to triggers of type TTrigger. Triggers may carry an
// ordered, typed argument list declared via TriggerParameters; arguments are
// validated on every fire before any guard or action runs.
type Machine[TState, TTrigger comparable] struct {
	stateAccessor func() TState
	stateMutator  func(TState)

	representations map[TState]*stateRepresentation[TState, TTrigger]

	// triggerParameters is keyed by (trigger, signature), not trigger alone:
	// one trigger may be configured with several distinct signatures.
	triggerParameters map[TriggerKey[TTrigger]]*TriggerParameters[TTrigger]

	// parameterSets indexes the registered parameter sets by trigger for the
	// fire path, in registration order.
	parameterSets map[TTrigger][]*TriggerParameters[TTrigger]

	// validator overrides the per-set validator when non-nil.
	validator ParameterValidator

	unhandledTriggerAction func(state TState, trigger TTrigger, unmetGuards []string)

	onTransitioned        *transitionEvent[TState, TTrigger]
	onTransitionCompleted *transitionEvent[TState, TTrigger]

	firingMode FiringMode
	eventQueue []queuedFire[TState, TTrigger]
	firing     bool
	mu         sync.Mutex

	active       bool
	initialState TState
}

type queuedFire[TState, TTrigger comparable] struct {
	trigger TTrigger
	args    []any
	ctx     context.Context
}

// transitionEvent fans a transition out to registered handlers.
type transitionEvent[TState, TTrigger comparable] struct {
	handlers []func(Transition[TState, TTrigger])
	mu       sync.RWMutex
}

func (e *transitionEvent[TState, TTrigger]) register(handler func(Transition[TState, TTrigger])) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

func (e *transitionEvent[TState, TTrigger]) unregisterAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = nil
}

func (e *transitionEvent[TState, TTrigger]) invoke(t Transition[TState, TTrigger]) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, handler := range e.handlers {
		handler(t)
	}
}

// New creates a machine with internal state storage, starting in the given
// state.
func New[TState, TTrigger comparable](initialState TState) *Machine[TState, TTrigger] {
	state := initialState
	return NewFromStorage[TState, TTrigger](
		func() TState { return state },
		func(s TState) { state = s },
	)
}

// NewWithMode creates a machine with the given firing mode.
func NewWithMode[TState, TTrigger comparable](initialState TState, mode FiringMode) *Machine[TState, TTrigger] {
	m := New[TState, TTrigger](initialState)
	m.firingMode = mode
	return m
}

// NewFromStorage creates a machine whose current state lives outside the
// machine, read and written through the given accessor and mutator.
func NewFromStorage[TState, TTrigger comparable](
	stateAccessor func() TState,
	stateMutator func(TState),
) *Machine[TState, TTrigger] {
	return &Machine[TState, TTrigger]{
		stateAccessor:         stateAccessor,
		stateMutator:          stateMutator,
		representations:       make(map[TState]*stateRepresentation[TState, TTrigger]),
		triggerParameters:     make(map[TriggerKey[TTrigger]]*TriggerParameters[TTrigger]),
		parameterSets:         make(map[TTrigger][]*TriggerParameters[TTrigger]),
		onTransitioned:        &transitionEvent[TState, TTrigger]{},
		onTransitionCompleted: &transitionEvent[TState, TTrigger]{},
		firingMode:            FiringImmediate,
		initialState:          stateAccessor(),
	}
}

// NewFromStorageWithMode creates a machine with external state storage and
// the given firing mode.
func NewFromStorageWithMode[TState, TTrigger comparable](
	stateAccessor func() TState,
	stateMutator func(TState),
	mode FiringMode,
) *Machine[TState, TTrigger] {
	m := NewFromStorage[TState, TTrigger](stateAccessor, stateMutator)
	m.firingMode = mode
	return m
}

// State returns the current state.
func (m *Machine[TState, TTrigger]) State() TState {
	return m.stateAccessor()
}

// Configure begins configuration of a state.
func (m *Machine[TState, TTrigger]) Configure(state TState) *StateConfig[TState, TTrigger] {
	return &StateConfig[TState, TTrigger]{
		representation: m.representation(state),
		lookup:         m.representation,
	}
}

// SetTriggerParameters registers a parameter set. The registry key is the
// set's TriggerKey, so the same trigger may be registered with several
// distinct signatures; registering the same (trigger, signature) twice is a
// configuration error and panics.
func (m *Machine[TState, TTrigger]) SetTriggerParameters(p *TriggerParameters[TTrigger]) {
	key := p.Key()
	if _, exists := m.triggerParameters[key]; exists {
		panic(fmt.Sprintf("trigger parameters already set for %v", key))
	}
	m.triggerParameters[key] = p
	m.parameterSets[p.Trigger()] = append(m.parameterSets[p.Trigger()], p)
}

// TriggerParametersFor returns the parameter set registered under the given
// key, if any.
func (m *Machine[TState, TTrigger]) TriggerParametersFor(key TriggerKey[TTrigger]) (*TriggerParameters[TTrigger], bool) {
	p, ok := m.triggerParameters[key]
	return p, ok
}

// SetParameterValidator overrides the assignability check applied to fired
// trigger arguments for every registered parameter set.
func (m *Machine[TState, TTrigger]) SetParameterValidator(v ParameterValidator) {
	m.validator = v
}

// Fire fires a trigger with the given ordered arguments.
func (m *Machine[TState, TTrigger]) Fire(trigger TTrigger, args ...any) error {
	return m.FireCtx(context.Background(), trigger, args...)
}

// FireCtx fires a trigger with a context. When the trigger has registered
// parameters, args is validated against the signature before any guard or
// action runs; a validation failure aborts the fire with the machine state
// untouched.
func (m *Machine[TState, TTrigger]) FireCtx(ctx context.Context, trigger TTrigger, args ...any) error {
	// Zero variadic arguments arrive as a nil slice; normalise to the empty
	// argument list so zero-arity triggers fire cleanly.
	if args == nil {
		args = []any{}
	}

	m.mu.Lock()

	if m.firingMode == FiringQueued {
		m.eventQueue = append(m.eventQueue, queuedFire[TState, TTrigger]{
			trigger: trigger,
			args:    args,
			ctx:     ctx,
		})

		if m.firing {
			m.mu.Unlock()
			return nil
		}

		m.firing = true
		m.mu.Unlock()

		for {
			m.mu.Lock()
			if len(m.eventQueue) == 0 {
				m.firing = false
				m.mu.Unlock()
				return nil
			}
			event := m.eventQueue[0]
			m.eventQueue = m.eventQueue[1:]
			m.mu.Unlock()

			if err := m.internalFire(event.ctx, event.trigger, event.args); err != nil {
				m.mu.Lock()
				m.firing = false
				m.mu.Unlock()
				return err
			}
		}
	}

	m.mu.Unlock()
	return m.internalFire(ctx, trigger, args)
}

func (m *Machine[TState, TTrigger]) internalFire(ctx context.Context, trigger TTrigger, args []any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Parameter validation happens strictly before guard evaluation and any
	// entry or exit action.
	if err := m.validateTriggerParameters(trigger, args); err != nil {
		return err
	}

	source := m.State()
	representation := m.representation(source)

	result := representation.findHandler(trigger, args)
	if result == nil || result.handler == nil {
		if result != nil && result.ambiguous {
			return &InvalidOperationError{
				Message: fmt.Sprintf(
					"multiple permitted transitions are configured from state '%v' for trigger '%v'; guards should be mutually exclusive",
					source, trigger),
			}
		}
		return m.handleUnhandledTrigger(source, trigger, result)
	}

	switch behaviour := result.handler.(type) {
	case *transitioningBehaviour[TState, TTrigger]:
		// A superstate transition targeting the current substate would cause
		// unintended reentry; treat it as a no-op.
		if source == behaviour.destination {
			return nil
		}
		return m.executeTransition(ctx, source, behaviour.destination, trigger, args, representation)

	case *reentryBehaviour[TState, TTrigger]:
		return m.executeTransition(ctx, source, behaviour.destination, trigger, args, representation)

	case *dynamicBehaviour[TState, TTrigger]:
		return m.executeTransition(ctx, source, behaviour.destinationState(args), trigger, args, representation)

	case *ignoredBehaviour[TState, TTrigger]:
		return nil

	case *internalBehaviour[TState, TTrigger]:
		// Internal transitions run their action without exit/entry and fire
		// no transition events.
		return behaviour.execute(ctx, NewTransition(source, source, trigger, args))

	default:
		return &InvalidOperationError{Message: fmt.Sprintf("unknown trigger behaviour type: %T", result.handler)}
	}
}

// validateTriggerParameters checks args against the signatures registered for
// the trigger. Triggers without registered parameters accept any arguments.
// When several signatures are registered, validation succeeds if any of them
// accepts the arguments; otherwise the error from the matching-arity
// signature is preferred.
func (m *Machine[TState, TTrigger]) validateTriggerParameters(trigger TTrigger, args []any) error {
	sets := m.parameterSets[trigger]
	if len(sets) == 0 {
		return nil
	}

	var firstErr, arityErr error
	for _, p := range sets {
		err := p.validateWith(args, m.validator)
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if arityErr == nil && p.Arity() == len(args) {
			arityErr = err
		}
	}
	if arityErr != nil {
		return arityErr
	}
	return firstErr
}

func (m *Machine[TState, TTrigger]) executeTransition(
	ctx context.Context,
	source, destination TState,
	trigger TTrigger,
	args []any,
	sourceRepresentation *stateRepresentation[TState, TTrigger],
) error {
	transition := NewTransition(source, destination, trigger, args)

	if err := sourceRepresentation.exit(ctx, transition); err != nil {
		return err
	}

	m.stateMutator(destination)
	m.onTransitioned.invoke(transition)

	if err := m.representation(destination).enter(ctx, transition); err != nil {
		return err
	}

	// Descend into configured initial substates, unless an entry action
	// already moved the machine elsewhere (possible in immediate mode).
	if m.State() == destination {
		if err := m.runInitialTransitions(ctx, destination, trigger, args); err != nil {
			return err
		}
	}

	m.onTransitionCompleted.invoke(NewTransition(source, m.State(), trigger, args))
	return nil
}

func (m *Machine[TState, TTrigger]) runInitialTransitions(ctx context.Context, destination TState, trigger TTrigger, args []any) error {
	current := destination
	for {
		rep := m.representation(current)
		if !rep.hasInitialTransition {
			return nil
		}

		target := rep.initialTransitionTarget
		targetRep := m.representation(target)
		if !targetRep.isIncludedIn(current) {
			return fmt.Errorf("initial transition target '%v' is not a substate of '%v'", target, current)
		}

		transition := NewInitialTransition(current, target, trigger, args)
		m.onTransitioned.invoke(transition)
		m.stateMutator(target)

		if err := targetRep.executeEntryActions(ctx, transition); err != nil {
			return err
		}

		current = target
	}
}

func (m *Machine[TState, TTrigger]) handleUnhandledTrigger(state TState, trigger TTrigger, result *behaviourResult[TState, TTrigger]) error {
	var unmetGuards []string
	if result != nil {
		unmetGuards = result.unmetGuardConditions
	}

	if m.unhandledTriggerAction != nil {
		m.unhandledTriggerAction(state, trigger, unmetGuards)
		return nil
	}

	permittedTriggers := m.representation(state).permittedTriggers([]any{})
	permitted := make([]any, len(permittedTriggers))
	for i, t := range permittedTriggers {
		permitted[i] = t
	}

	return &InvalidTransitionError{
		Trigger:           trigger,
		State:             state,
		UnmetGuards:       unmetGuards,
		PermittedTriggers: permitted,
	}
}

// OnUnhandledTrigger registers a callback invoked instead of returning
// InvalidTransitionError when a trigger has no valid transition.
func (m *Machine[TState, TTrigger]) OnUnhandledTrigger(action func(state TState, trigger TTrigger, unmetGuards []string)) {
	m.unhandledTriggerAction = action
}

// OnTransitioned registers a callback invoked when a transition has changed
// the state, before entry actions complete.
func (m *Machine[TState, TTrigger]) OnTransitioned(action func(Transition[TState, TTrigger])) {
	m.onTransitioned.register(action)
}

// OnTransitionCompleted registers a callback invoked after all transition
// actions have executed.
func (m *Machine[TState, TTrigger]) OnTransitionCompleted(action func(Transition[TState, TTrigger])) {
	m.onTransitionCompleted.register(action)
}

// UnregisterAllCallbacks removes every registered callback.
func (m *Machine[TState, TTrigger]) UnregisterAllCallbacks() {
	m.onTransitioned.unregisterAll()
	m.onTransitionCompleted.unregisterAll()
	m.unhandledTriggerAction = nil
}

// Activate runs the activation actions of the current state and its
// superstates.
func (m *Machine[TState, TTrigger]) Activate(ctx context.Context) error {
	if m.active {
		return nil
	}
	if err := m.representation(m.State()).activate(ctx); err != nil {
		return err
	}
	m.active = true
	return nil
}

// Deactivate runs the deactivation actions of the current state and its
// superstates.
func (m *Machine[TState, TTrigger]) Deactivate(ctx context.Context) error {
	if !m.active {
		return nil
	}
	if err := m.representation(m.State()).deactivate(ctx); err != nil {
		return err
	}
	m.active = false
	return nil
}

// IsInState reports whether the current state is the given state or one of
// its substates.
func (m *Machine[TState, TTrigger]) IsInState(state TState) bool {
	return m.representation(m.State()).isIncludedIn(state)
}

// CanFire reports whether the trigger can be fired from the current state
// with the given arguments. Parameter validation applies.
func (m *Machine[TState, TTrigger]) CanFire(trigger TTrigger, args ...any) bool {
	if args == nil {
		args = []any{}
	}
	if err := m.validateTriggerParameters(trigger, args); err != nil {
		return false
	}
	return m.representation(m.State()).canHandle(trigger, args)
}

// PermittedTriggers returns the triggers whose guards pass from the current
// state for the given arguments.
func (m *Machine[TState, TTrigger]) PermittedTriggers(args ...any) []TTrigger {
	if args == nil {
		args = []any{}
	}
	return m.representation(m.State()).permittedTriggers(args)
}

func (m *Machine[TState, TTrigger]) representation(state TState) *stateRepresentation[TState, TTrigger] {
	rep, ok := m.representations[state]
	if !ok {
		rep = newStateRepresentation[TState, TTrigger](state)
		m.representations[state] = rep
	}
	return rep
}

// String returns a readable form of the machine's current state.
func (m *Machine[TState, TTrigger]) String() string {
	return fmt.Sprintf("Machine { State = %v }", m.State())
}
