package statemill

import "reflect"

// ParameterValidator checks a runtime argument list against an ordered list
// of expected parameter types. The embedding application owns the notion of
// "compatible": supply a custom implementation (or a custom AssignableFunc on
// RuntimeValidator) to widen or narrow what the default assignability rule
// accepts.
type ParameterValidator interface {
	// Validate returns nil when args matches expected positionally, a
	// *ParameterCountError when the lengths differ, or a *ParameterTypeError
	// naming the first incompatible position.
	Validate(args []any, expected []reflect.Type) error
}

// AssignableFunc decides whether a runtime value of type actual may stand in
// for a parameter declared as type expected.
type AssignableFunc func(actual, expected reflect.Type) bool

// RuntimeValidator is the default ParameterValidator. It checks argument
// count and per-position assignability using reflection.
type RuntimeValidator struct {
	// Assignable overrides the compatibility rule. When nil,
	// reflect.Type.AssignableTo is used.
	Assignable AssignableFunc
}

// DefaultValidator is the validator used when none has been configured.
var DefaultValidator ParameterValidator = RuntimeValidator{}

// Validate implements ParameterValidator.
func (v RuntimeValidator) Validate(args []any, expected []reflect.Type) error {
	if len(args) != len(expected) {
		return &ParameterCountError{Expected: len(expected), Actual: len(args)}
	}

	assignable := v.Assignable
	if assignable == nil {
		assignable = func(actual, want reflect.Type) bool { return actual.AssignableTo(want) }
	}

	for i, want := range expected {
		arg := args[i]
		if arg == nil {
			if isNilable(want) {
				continue
			}
			return &ParameterTypeError{Index: i, Expected: want, Actual: nil}
		}
		actual := reflect.TypeOf(arg)
		if !assignable(actual, want) {
			return &ParameterTypeError{Index: i, Expected: want, Actual: actual}
		}
	}

	return nil
}

// isNilable reports whether a nil argument is a valid value for the type.
func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
