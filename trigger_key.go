package statemill

import (
	"fmt"
	"reflect"
	"strings"
)

// TriggerKey identifies a trigger together with its ordered parameter-type
// signature. The combination, not the trigger alone, is what the machine's
// trigger-parameter registry is keyed by: the same trigger value may be
// configured with several distinct signatures.
//
// TriggerKey is comparable, so it can be used directly as a Go map key. Two
// keys are equal exactly when their trigger values are equal and their
// signatures match element by element; the signature is derived from the
// content of the type list, never from the identity of the slice that carried
// it.
type TriggerKey[TTrigger comparable] struct {
	trigger   TTrigger
	signature string
}

// NewTriggerKey builds a key for the given trigger and ordered argument types.
// argumentTypes must not be nil; an empty, non-nil slice declares a
// zero-arity signature.
func NewTriggerKey[TTrigger comparable](trigger TTrigger, argumentTypes []reflect.Type) (TriggerKey[TTrigger], error) {
	if argumentTypes == nil {
		return TriggerKey[TTrigger]{}, &ArgumentNilError{Name: "argumentTypes"}
	}
	return TriggerKey[TTrigger]{
		trigger:   trigger,
		signature: signatureOf(argumentTypes),
	}, nil
}

// Trigger returns the underlying trigger value.
func (k TriggerKey[TTrigger]) Trigger() TTrigger {
	return k.trigger
}

// Signature returns the canonical encoding of the ordered parameter types.
func (k TriggerKey[TTrigger]) Signature() string {
	return k.signature
}

// Equal reports whether two keys identify the same (trigger, signature) pair.
// Equivalent to ==, provided for symmetry with the map-key contract.
func (k TriggerKey[TTrigger]) Equal(other TriggerKey[TTrigger]) bool {
	return k == other
}

// String returns a readable "trigger(type, ...)" form.
func (k TriggerKey[TTrigger]) String() string {
	return fmt.Sprintf("%v(%s)", k.trigger, k.signature)
}

// signatureOf encodes an ordered type list as a canonical string. Named types
// are qualified by package path so same-named types from different packages
// never collide; unnamed types fall back to their syntactic form.
func signatureOf(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = canonicalTypeName(t)
	}
	return strings.Join(names, ", ")
}

func canonicalTypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
