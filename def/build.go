package def

import (
	"fmt"
	"sort"

	"github.com/statemill/statemill"
)

// Build constructs a machine from the definition using the default type
// registry.
func (d *Definition) Build() (*statemill.Machine[string, string], error) {
	return d.BuildWith(NewTypeRegistry())
}

// BuildWith constructs a machine from the definition, resolving trigger
// parameter signatures through the given registry. The definition must have
// been validated (Parse, Load and LoadFile validate automatically).
func (d *Definition) BuildWith(registry *TypeRegistry) (*statemill.Machine[string, string], error) {
	m := statemill.New[string, string](d.Initial)

	// Deterministic configuration order keeps panics and introspection
	// output stable across runs.
	names := make([]string, 0, len(d.States))
	for name := range d.States {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		state := d.States[name]
		cfg := m.Configure(name)
		if state == nil {
			continue
		}

		if state.Parent != "" {
			cfg.SubstateOf(state.Parent)
		}
		if state.Initial != "" {
			cfg.InitialTransition(state.Initial)
		}

		triggers := make([]string, 0, len(state.On))
		for trigger := range state.On {
			triggers = append(triggers, trigger)
		}
		sort.Strings(triggers)

		for _, trigger := range triggers {
			for _, t := range state.On[trigger] {
				switch {
				case t.Ignore:
					cfg.Ignore(trigger)
				case t.Internal:
					cfg.InternalTransition(trigger, nil)
				case t.Target == name:
					cfg.PermitReentry(trigger)
				default:
					cfg.Permit(trigger, t.Target)
				}
			}
		}
	}

	triggerNames := make([]string, 0, len(d.Triggers))
	for trigger := range d.Triggers {
		triggerNames = append(triggerNames, trigger)
	}
	sort.Strings(triggerNames)

	for _, trigger := range triggerNames {
		types, err := registry.resolve(d.Triggers[trigger])
		if err != nil {
			return nil, fmt.Errorf("trigger %q: %w", trigger, err)
		}
		params, err := statemill.NewTriggerParameters(trigger, types)
		if err != nil {
			return nil, fmt.Errorf("trigger %q: %w", trigger, err)
		}
		m.SetTriggerParameters(params)
	}

	return m, nil
}
