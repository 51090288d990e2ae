package statemill

import (
	"fmt"
	"reflect"
	"strings"
)

// ArgumentNilError indicates that a required argument was absent (nil).
// An empty slice is not absent; only nil triggers this error.
type ArgumentNilError struct {
	Name string
}

func (e *ArgumentNilError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("argument %q must not be nil", e.Name)
	}
	return "argument must not be nil"
}

// ParameterCountError indicates that the number of fired arguments differs
// from the arity configured for the trigger.
type ParameterCountError struct {
	Expected int
	Actual   int
}

func (e *ParameterCountError) Error() string {
	return fmt.Sprintf("expected %d trigger parameters but got %d", e.Expected, e.Actual)
}

// ParameterTypeError indicates that the argument at Index is not assignable
// to the configured parameter type at that position.
type ParameterTypeError struct {
	Index    int
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *ParameterTypeError) Error() string {
	actual := "<nil>"
	if e.Actual != nil {
		actual = e.Actual.String()
	}
	return fmt.Sprintf("trigger parameter at position %d is of type %s but expected type %v", e.Index, actual, e.Expected)
}

// InvalidOperationError indicates an operation that is not valid given the
// machine's current configuration.
type InvalidOperationError struct {
	Message string
}

func (e *InvalidOperationError) Error() string {
	return e.Message
}

// InvalidTransitionError is returned when a trigger is fired from a state
// that has no valid transition for it.
type InvalidTransitionError struct {
	Trigger           any
	State             any
	UnmetGuards       []string
	PermittedTriggers []any
}

func (e *InvalidTransitionError) Error() string {
	if len(e.UnmetGuards) > 0 {
		return fmt.Sprintf(
			"trigger '%v' is valid for transition from state '%v' but guard conditions are not met: %s",
			e.Trigger, e.State, strings.Join(e.UnmetGuards, ", "))
	}

	var permitted string
	if len(e.PermittedTriggers) > 0 {
		triggers := make([]string, len(e.PermittedTriggers))
		for i, t := range e.PermittedTriggers {
			triggers[i] = fmt.Sprintf("%v", t)
		}
		permitted = fmt.Sprintf(" Permitted triggers: %s.", strings.Join(triggers, ", "))
	} else {
		permitted = " No valid leaving transitions are permitted from state."
	}

	return fmt.Sprintf(
		"no valid leaving transitions are permitted from state '%v' for trigger '%v'.%s",
		e.State, e.Trigger, permitted)
}
