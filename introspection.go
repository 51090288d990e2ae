package statemill

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// InvocationInfo describes a configured function, either an action or a
// guard condition.
type InvocationInfo struct {
	// MethodName is the name of the configured function.
	MethodName string

	description string
}

// defaultFunctionDescription is returned for compiler-generated function
// names when the caller supplied no description.
const defaultFunctionDescription = "Function"

// NewInvocationInfo creates an InvocationInfo.
func NewInvocationInfo(methodName, description string) InvocationInfo {
	return InvocationInfo{
		MethodName:  methodName,
		description: description,
	}
}

// describeFunc builds an InvocationInfo from a function value and an optional
// user-supplied description.
func describeFunc(fn any, description string) InvocationInfo {
	return NewInvocationInfo(functionName(fn), description)
}

// Description returns the user-supplied description when present, otherwise a
// readable form of the function name.
func (i InvocationInfo) Description() string {
	if i.description != "" {
		return i.description
	}
	if i.MethodName == "" {
		return "<nil>"
	}
	if strings.Contains(i.MethodName, "func") || strings.Contains(i.MethodName, ".") {
		return defaultFunctionDescription
	}
	return i.MethodName
}

func functionName(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	name := runtime.FuncForPC(v.Pointer()).Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// ActionInfo describes an entry or exit action, with the trigger it is bound
// to when configured via OnEntryFrom.
type ActionInfo struct {
	InvocationInfo

	// FromTrigger is the trigger this action is restricted to, or nil.
	FromTrigger any
}

// TriggerInfo describes a trigger and, when the trigger has been configured
// with parameters, the names of its parameter types in order.
type TriggerInfo struct {
	// UnderlyingTrigger is the underlying trigger value.
	UnderlyingTrigger any

	// ParameterTypes holds the configured parameter-type names, one entry per
	// registered signature. Empty when the trigger carries no parameters.
	ParameterTypes []string
}

// String returns the readable form of the trigger.
func (t TriggerInfo) String() string {
	return fmt.Sprintf("%v", t.UnderlyingTrigger)
}

// MachineInfo exposes the states, transitions and actions of a machine for
// introspection and graph export.
type MachineInfo struct {
	// InitialState is the machine's initial state.
	InitialState *StateInfo

	// States contains every configured or referenced state.
	States []*StateInfo

	// StateType and TriggerType name the Go types used for states and triggers.
	StateType   string
	TriggerType string
}

// StateInfo describes one state's configuration.
type StateInfo struct {
	// UnderlyingState is the state value.
	UnderlyingState any

	// Superstate is the parent state, if any.
	Superstate *StateInfo

	// Substates are the child states.
	Substates []*StateInfo

	// EntryActions are executed on state entry.
	EntryActions []ActionInfo

	// ExitActions are executed on state exit.
	ExitActions []InvocationInfo

	// ActivateActions and DeactivateActions run on machine activation and
	// deactivation while this state is current.
	ActivateActions   []InvocationInfo
	DeactivateActions []InvocationInfo

	// FixedTransitions are transitions with a statically known destination.
	FixedTransitions []FixedTransitionInfo

	// DynamicTransitions are transitions whose destination is computed.
	DynamicTransitions []DynamicTransitionInfo

	// IgnoredTriggers are triggers this state swallows.
	IgnoredTriggers []IgnoredTransitionInfo
}

// String returns the readable form of the state.
func (s *StateInfo) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", s.UnderlyingState)
}

// Transitions returns all fixed and dynamic transitions for the state.
func (s *StateInfo) Transitions() []TransitionInfo {
	result := make([]TransitionInfo, 0, len(s.FixedTransitions)+len(s.DynamicTransitions))
	for i := range s.FixedTransitions {
		result = append(result, &s.FixedTransitions[i])
	}
	for i := range s.DynamicTransitions {
		result = append(result, &s.DynamicTransitions[i])
	}
	return result
}

// TransitionInfo is the common view of a configured transition.
type TransitionInfo interface {
	GetTrigger() TriggerInfo
	GetGuardConditions() []InvocationInfo
	GetIsInternalTransition() bool
}

type transitionInfoBase struct {
	// Trigger is the trigger whose firing results in this transition.
	Trigger TriggerInfo

	// GuardConditions describe the guards on this transition.
	GuardConditions []InvocationInfo

	// IsInternalTransition marks transitions that do not exit the state.
	IsInternalTransition bool
}

func (t *transitionInfoBase) GetTrigger() TriggerInfo              { return t.Trigger }
func (t *transitionInfoBase) GetGuardConditions() []InvocationInfo { return t.GuardConditions }
func (t *transitionInfoBase) GetIsInternalTransition() bool        { return t.IsInternalTransition }

// FixedTransitionInfo describes a transition with a fixed destination.
type FixedTransitionInfo struct {
	transitionInfoBase

	// DestinationState is the state entered when the transition runs.
	DestinationState *StateInfo
}

// DynamicStateInfo names a possible destination of a dynamic transition.
type DynamicStateInfo struct {
	// DestinationState is the name of the destination state.
	DestinationState string

	// Criterion is the reason this destination would be chosen.
	Criterion string
}

// DynamicTransitionInfo describes a transition whose destination is computed
// from the trigger arguments.
type DynamicTransitionInfo struct {
	transitionInfoBase

	// DestinationSelector describes the selector function.
	DestinationSelector InvocationInfo

	// PossibleDestinationStates lists declared candidate destinations.
	PossibleDestinationStates []DynamicStateInfo
}

// IgnoredTransitionInfo describes a trigger a state ignores.
type IgnoredTransitionInfo struct {
	transitionInfoBase
}
