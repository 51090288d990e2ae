// Package graph renders a configured machine's introspection snapshot as a
// Mermaid state diagram or a Graphviz DOT digraph.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/statemill/statemill"
)

// Direction controls the flow of the rendered diagram.
type Direction string

const (
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// edge is one rendered transition.
type edge struct {
	source   string
	target   string
	label    string
	internal bool
}

// model is the render-ready view of a MachineInfo: stable node names, sorted
// states and edges.
type model struct {
	states  []*statemill.StateInfo
	names   map[*statemill.StateInfo]string
	roots   []*statemill.StateInfo
	initial string
	edges   []edge
}

func buildModel(info *statemill.MachineInfo) *model {
	m := &model{
		names: make(map[*statemill.StateInfo]string, len(info.States)),
	}

	m.states = make([]*statemill.StateInfo, len(info.States))
	copy(m.states, info.States)
	sort.Slice(m.states, func(i, j int) bool {
		return m.states[i].String() < m.states[j].String()
	})

	used := make(map[string]bool, len(m.states))
	for _, s := range m.states {
		name := sanitize(s.String())
		for used[name] {
			name += "_"
		}
		used[name] = true
		m.names[s] = name
		if s.Superstate == nil {
			m.roots = append(m.roots, s)
		}
	}

	if info.InitialState != nil {
		m.initial = m.names[info.InitialState]
	}

	for _, s := range m.states {
		source := m.names[s]
		for _, t := range s.Transitions() {
			label := transitionLabel(t)
			switch ti := t.(type) {
			case *statemill.FixedTransitionInfo:
				m.edges = append(m.edges, edge{
					source:   source,
					target:   m.names[ti.DestinationState],
					label:    label,
					internal: ti.GetIsInternalTransition(),
				})
			case *statemill.DynamicTransitionInfo:
				for _, dest := range ti.PossibleDestinationStates {
					destLabel := label
					if dest.Criterion != "" {
						destLabel += " [" + dest.Criterion + "]"
					}
					m.edges = append(m.edges, edge{
						source: source,
						target: sanitize(dest.DestinationState),
						label:  destLabel,
					})
				}
			}
		}
	}

	sort.Slice(m.edges, func(i, j int) bool {
		a, b := m.edges[i], m.edges[j]
		if a.source != b.source {
			return a.source < b.source
		}
		if a.target != b.target {
			return a.target < b.target
		}
		return a.label < b.label
	})

	return m
}

// transitionLabel formats "trigger(signature) [guards]".
func transitionLabel(t statemill.TransitionInfo) string {
	label := triggerLabel(t.GetTrigger())
	if guards := t.GetGuardConditions(); len(guards) > 0 {
		descs := make([]string, len(guards))
		for i, g := range guards {
			descs[i] = g.Description()
		}
		label += " [" + strings.Join(descs, ", ") + "]"
	}
	return label
}

func triggerLabel(t statemill.TriggerInfo) string {
	if len(t.ParameterTypes) == 0 {
		return t.String()
	}
	return fmt.Sprintf("%s(%s)", t.String(), strings.Join(t.ParameterTypes, " | "))
}

// sanitize maps a state name onto the identifier charset shared by Mermaid
// and DOT node names.
func sanitize(name string) string {
	if name == "" {
		return "_"
	}
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
