// Package statemill provides a generic finite-state machine with typed,
// validated trigger parameters.
//
// States and triggers are arbitrary comparable Go types. A machine is
// configured once, with a fluent API, and then driven by firing triggers:
//
//	m := statemill.New[State, Trigger](Idle)
//
//	m.Configure(Idle).
//	    Permit(Start, Running).
//	    OnEntry(func(ctx context.Context, t statemill.Transition[State, Trigger]) error {
//	        fmt.Println("entering Idle")
//	        return nil
//	    })
//
//	err := m.Fire(Start)
//
// # Parameterized triggers
//
// A trigger may declare an ordered, typed parameter signature. The signature
// is declared with compile-time type witnesses and re-checked at runtime on
// every fire, before any guard or action runs:
//
//	deposit := statemill.TriggerWith1[int](Deposit)
//	m.SetTriggerParameters(deposit)
//
//	m.Fire(Deposit, 42)      // ok
//	m.Fire(Deposit)          // ParameterCountError
//	m.Fire(Deposit, "abc")   // ParameterTypeError at position 0
//
// The registry key is the (trigger, signature) pair, so the same trigger
// value may be configured with several distinct signatures. What counts as an
// assignable argument is a pluggable predicate; see ParameterValidator.
//
// # Guards, hierarchy and firing modes
//
// Transitions can be guarded with error-returning conditions that receive the
// fired arguments, states can be nested with SubstateOf and InitialTransition,
// and machines can process triggers immediately or through a queue
// (FiringQueued) when actions fire further triggers.
//
// # Declarative definitions and graphs
//
// The def subpackage loads machine definitions, including trigger parameter
// signatures, from YAML. The graph subpackage renders a configured machine to
// Mermaid or Graphviz DOT.
package statemill
