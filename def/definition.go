// Package def loads declarative machine definitions from YAML and builds
// statemill machines from them. States and triggers are strings; trigger
// parameter signatures are declared by type name and resolved through a
// TypeRegistry.
//
// A minimal definition:
//
//	id: account
//	initial: open
//	states:
//	  open:
//	    on:
//	      deposit:
//	        - target: open
//	      freeze:
//	        - target: frozen
//	  frozen:
//	    on:
//	      thaw:
//	        - target: open
//	triggers:
//	  deposit: [int]
package def

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the top-level machine definition.
type Definition struct {
	// ID names the machine.
	ID string `yaml:"id"`

	// Initial is the machine's initial state.
	Initial string `yaml:"initial"`

	// States maps state names to their configuration.
	States map[string]*State `yaml:"states"`

	// Triggers maps trigger names to their parameter signatures, as ordered
	// lists of type names resolvable through the TypeRegistry. Triggers
	// without an entry carry no parameters.
	Triggers map[string]Signature `yaml:"triggers,omitempty"`
}

// State configures one state.
type State struct {
	// Parent makes this state a substate of the named state.
	Parent string `yaml:"parent,omitempty"`

	// Initial names the substate entered when a transition lands on this
	// composite state directly.
	Initial string `yaml:"initial,omitempty"`

	// On maps trigger names to the transitions they cause.
	On map[string][]Transition `yaml:"on,omitempty"`
}

// Transition configures one response to a trigger.
type Transition struct {
	// Target is the destination state. A target equal to the owning state
	// declares a reentry.
	Target string `yaml:"target,omitempty"`

	// Internal marks a transition that runs without exiting the state.
	Internal bool `yaml:"internal,omitempty"`

	// Ignore swallows the trigger without transitioning.
	Ignore bool `yaml:"ignore,omitempty"`
}

// Signature is an ordered list of parameter type names.
type Signature []string

// Parse decodes and validates a YAML definition.
func Parse(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads and parses a definition from r.
func Load(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and parses a definition from a file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return Parse(data)
}

// Validate checks structural consistency: required fields, state references,
// and reachability of every state from the initial state.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return errors.New("machine id is required")
	}
	if d.Initial == "" {
		return errors.New("initial state is required")
	}
	if len(d.States) == 0 {
		return errors.New("at least one state is required")
	}
	if _, ok := d.States[d.Initial]; !ok {
		return fmt.Errorf("initial state %q not found in states", d.Initial)
	}

	for name, state := range d.States {
		if state == nil {
			continue
		}
		if state.Parent != "" {
			if _, ok := d.States[state.Parent]; !ok {
				return fmt.Errorf("state %q: parent %q not found in states", name, state.Parent)
			}
			if state.Parent == name {
				return fmt.Errorf("state %q: cannot be its own parent", name)
			}
		}
		if state.Initial != "" {
			sub, ok := d.States[state.Initial]
			if !ok {
				return fmt.Errorf("state %q: initial substate %q not found in states", name, state.Initial)
			}
			if sub == nil || sub.Parent != name {
				return fmt.Errorf("state %q: initial substate %q is not a child of it", name, state.Initial)
			}
		}
		for trigger, transitions := range state.On {
			if trigger == "" {
				return fmt.Errorf("state %q: trigger name must not be empty", name)
			}
			for i, t := range transitions {
				if err := t.validate(); err != nil {
					return fmt.Errorf("state %q, trigger %q, transition %d: %w", name, trigger, i, err)
				}
				if t.Target != "" {
					if _, ok := d.States[t.Target]; !ok {
						return fmt.Errorf("state %q, trigger %q: target %q not found in states", name, trigger, t.Target)
					}
				}
			}
		}
	}

	if err := d.checkParentCycles(); err != nil {
		return err
	}
	return d.checkReachability()
}

func (t Transition) validate() error {
	switch {
	case t.Ignore && (t.Internal || t.Target != ""):
		return errors.New("ignore excludes target and internal")
	case t.Internal && t.Target != "":
		return errors.New("internal transitions have no target")
	case !t.Ignore && !t.Internal && t.Target == "":
		return errors.New("a target, internal, or ignore is required")
	}
	return nil
}

func (d *Definition) checkParentCycles() error {
	for name := range d.States {
		seen := map[string]bool{name: true}
		for current := name; ; {
			state := d.States[current]
			if state == nil || state.Parent == "" {
				break
			}
			if seen[state.Parent] {
				return fmt.Errorf("state %q: circular parent relationship via %q", name, state.Parent)
			}
			seen[state.Parent] = true
			current = state.Parent
		}
	}
	return nil
}

// checkReachability walks transition targets and the parent/initial hierarchy
// from the initial state and rejects orphans.
func (d *Definition) checkReachability() error {
	visited := make(map[string]bool, len(d.States))
	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true

		state := d.States[name]
		if state == nil {
			return
		}
		if state.Parent != "" {
			visit(state.Parent)
		}
		if state.Initial != "" {
			visit(state.Initial)
		}
		for _, transitions := range state.On {
			for _, t := range transitions {
				if t.Target != "" {
					visit(t.Target)
				}
			}
		}
		// A superstate's triggers are available to its substates; entering a
		// parent reaches its children via their own transitions only, so
		// children declare reachability through parents.
		for childName, child := range d.States {
			if child != nil && child.Parent == name {
				visit(childName)
			}
		}
	}
	visit(d.Initial)

	for name := range d.States {
		if !visited[name] {
			return fmt.Errorf("orphaned state %q (not reachable from initial %q)", name, d.Initial)
		}
	}
	return nil
}
