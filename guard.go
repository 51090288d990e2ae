package statemill

// GuardFunc decides whether a transition may proceed. It receives the fired
// trigger arguments (already validated against the trigger's signature) and
// returns nil when the condition is met, or an error describing why it is not.
type GuardFunc func(args []any) error

// GuardCondition pairs a guard function with a description used in
// diagnostics and introspection.
type GuardCondition struct {
	Guard       GuardFunc
	description InvocationInfo
}

// NewGuardCondition creates a guard condition.
func NewGuardCondition(guard GuardFunc, description InvocationInfo) GuardCondition {
	return GuardCondition{
		Guard:       guard,
		description: description,
	}
}

// Description returns the readable description of the guard.
func (g GuardCondition) Description() string {
	return g.description.Description()
}

// MethodDescription returns the full method description.
func (g GuardCondition) MethodDescription() InvocationInfo {
	return g.description
}

// IsMet reports whether the guard passes for the given arguments.
func (g GuardCondition) IsMet(args []any) bool {
	return g.Err(args) == nil
}

// Err returns the guard's error for the given arguments, or nil when it passes.
func (g GuardCondition) Err(args []any) error {
	if g.Guard == nil {
		return nil
	}
	return g.Guard(args)
}

// TransitionGuard is the conjunction of zero or more guard conditions.
type TransitionGuard struct {
	Conditions []GuardCondition
}

// EmptyGuard always passes.
var EmptyGuard = TransitionGuard{}

// NewTransitionGuard wraps a single guard function. A nil function yields the
// empty guard.
func NewTransitionGuard(guard GuardFunc, description ...string) TransitionGuard {
	if guard == nil {
		return EmptyGuard
	}
	return TransitionGuard{
		Conditions: []GuardCondition{
			NewGuardCondition(guard, describeFunc(guard, firstOrEmpty(description))),
		},
	}
}

// ConditionsMet reports whether every condition passes.
func (tg TransitionGuard) ConditionsMet(args []any) bool {
	for _, c := range tg.Conditions {
		if !c.IsMet(args) {
			return false
		}
	}
	return true
}

// UnmetConditions returns the failure messages of all conditions that do not
// pass for the given arguments.
func (tg TransitionGuard) UnmetConditions(args []any) []string {
	var unmet []string
	for _, c := range tg.Conditions {
		if err := c.Err(args); err != nil {
			unmet = append(unmet, err.Error())
		}
	}
	return unmet
}

// IsEmpty reports whether the guard has no conditions.
func (tg TransitionGuard) IsEmpty() bool {
	return len(tg.Conditions) == 0
}

func firstOrEmpty(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}
