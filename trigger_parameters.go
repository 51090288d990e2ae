package statemill

import "reflect"

// TriggerParameters associates an ordered parameter-type signature with a
// trigger. Instances are built once during configuration, registered with the
// machine, and consulted on every fire of the trigger to validate the
// supplied arguments before any guard or action runs.
//
// A TriggerParameters never changes after construction; validation is pure
// and safe to invoke concurrently.
type TriggerParameters[TTrigger comparable] struct {
	key           TriggerKey[TTrigger]
	argumentTypes []reflect.Type
	validator     ParameterValidator
}

// NewTriggerParameters creates a parameter set for the given trigger and
// ordered argument types. argumentTypes must not be nil; pass an empty slice
// to declare a zero-arity trigger. The slice is copied, so later mutation of
// the caller's slice cannot alter the signature.
func NewTriggerParameters[TTrigger comparable](trigger TTrigger, argumentTypes []reflect.Type) (*TriggerParameters[TTrigger], error) {
	key, err := NewTriggerKey(trigger, argumentTypes)
	if err != nil {
		return nil, err
	}
	types := make([]reflect.Type, len(argumentTypes))
	copy(types, argumentTypes)
	return &TriggerParameters[TTrigger]{
		key:           key,
		argumentTypes: types,
	}, nil
}

// Trigger returns the underlying trigger value.
func (p *TriggerParameters[TTrigger]) Trigger() TTrigger {
	return p.key.trigger
}

// Key returns the (trigger, signature) key this parameter set is registered
// under. Intended for the machine's registry, not for firing.
func (p *TriggerParameters[TTrigger]) Key() TriggerKey[TTrigger] {
	return p.key
}

// ArgumentTypes returns a copy of the configured parameter types, in order.
func (p *TriggerParameters[TTrigger]) ArgumentTypes() []reflect.Type {
	types := make([]reflect.Type, len(p.argumentTypes))
	copy(types, p.argumentTypes)
	return types
}

// Arity returns the number of parameters the signature declares.
func (p *TriggerParameters[TTrigger]) Arity() int {
	return len(p.argumentTypes)
}

// WithValidator returns a copy of the parameter set that validates with v
// instead of the default validator.
func (p *TriggerParameters[TTrigger]) WithValidator(v ParameterValidator) *TriggerParameters[TTrigger] {
	clone := *p
	clone.validator = v
	return &clone
}

// ValidateParameters checks the supplied argument list against the configured
// signature. A nil list is rejected even for zero-arity triggers: absence of
// arguments is signalled with an empty slice, never with nil.
func (p *TriggerParameters[TTrigger]) ValidateParameters(args []any) error {
	return p.validateWith(args, nil)
}

// validateWith validates using the override validator when non-nil, then the
// set's own validator, then the package default.
func (p *TriggerParameters[TTrigger]) validateWith(args []any, override ParameterValidator) error {
	if args == nil {
		return &ArgumentNilError{Name: "args"}
	}
	v := override
	if v == nil {
		v = p.validator
	}
	if v == nil {
		v = DefaultValidator
	}
	return v.Validate(args, p.argumentTypes)
}

// TypeOf returns the reflect.Type witness for T. Unlike reflect.TypeOf on a
// zero value, it yields the interface type itself for interface T rather
// than nil.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TriggerWith0 declares a zero-arity parameter set for the trigger. Firing it
// with any arguments fails validation; firing with none succeeds.
func TriggerWith0[TTrigger comparable](trigger TTrigger) *TriggerParameters[TTrigger] {
	return mustTriggerParameters(trigger, []reflect.Type{})
}

// TriggerWith1 declares a one-parameter signature for the trigger, with the
// parameter type supplied as a compile-time witness:
//
//	deposit := statemill.TriggerWith1[int](TriggerDeposit)
func TriggerWith1[A any, TTrigger comparable](trigger TTrigger) *TriggerParameters[TTrigger] {
	return mustTriggerParameters(trigger, []reflect.Type{TypeOf[A]()})
}

// TriggerWith2 declares a two-parameter signature for the trigger.
func TriggerWith2[A, B any, TTrigger comparable](trigger TTrigger) *TriggerParameters[TTrigger] {
	return mustTriggerParameters(trigger, []reflect.Type{TypeOf[A](), TypeOf[B]()})
}

// TriggerWith3 declares a three-parameter signature for the trigger.
func TriggerWith3[A, B, C any, TTrigger comparable](trigger TTrigger) *TriggerParameters[TTrigger] {
	return mustTriggerParameters(trigger, []reflect.Type{TypeOf[A](), TypeOf[B](), TypeOf[C]()})
}

// mustTriggerParameters backs the arity-specific constructors, which always
// supply a non-nil type list.
func mustTriggerParameters[TTrigger comparable](trigger TTrigger, types []reflect.Type) *TriggerParameters[TTrigger] {
	p, err := NewTriggerParameters(trigger, types)
	if err != nil {
		panic(err)
	}
	return p
}
