package graph

import (
	"fmt"
	"strings"

	"github.com/statemill/statemill"
)

// Dot renders the machine as a Graphviz DOT digraph in UML style.
func Dot(info *statemill.MachineInfo) string {
	return DotWithDirection(info, TopToBottom)
}

// DotWithDirection renders the machine as a Graphviz DOT digraph with an
// explicit rank direction.
func DotWithDirection(info *statemill.MachineInfo, direction Direction) string {
	m := buildModel(info)

	var sb strings.Builder
	sb.WriteString("digraph {\n")
	sb.WriteString("\tcompound=true;\n")
	sb.WriteString("\tnode [shape=Mrecord];\n")
	fmt.Fprintf(&sb, "\trankdir=\"%s\";\n", direction)

	for _, root := range m.roots {
		writeDotState(&sb, m, root, "\t")
	}

	if m.initial != "" {
		sb.WriteString("\n\tinit [label=\"\", shape=point];\n")
		fmt.Fprintf(&sb, "\tinit -> %s;\n", m.initial)
	}

	for _, e := range m.edges {
		style := ""
		if e.internal {
			style = ", style=dashed"
		}
		fmt.Fprintf(&sb, "\t%s -> %s [label=%q%s];\n", e.source, e.target, e.label, style)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// writeDotState emits a node, or a cluster subgraph for composite states.
func writeDotState(sb *strings.Builder, m *model, s *statemill.StateInfo, indent string) {
	name := m.names[s]
	if len(s.Substates) == 0 {
		fmt.Fprintf(sb, "%s%s [label=%q];\n", indent, name, dotLabel(s))
		return
	}

	fmt.Fprintf(sb, "%ssubgraph cluster_%s {\n", indent, name)
	fmt.Fprintf(sb, "%s\tlabel=%q;\n", indent, s.String())
	// Anchor node so edges can target the composite state itself.
	fmt.Fprintf(sb, "%s\t%s [label=%q];\n", indent, name, dotLabel(s))
	for _, sub := range s.Substates {
		writeDotState(sb, m, sub, indent+"\t")
	}
	fmt.Fprintf(sb, "%s}\n", indent)
}

// dotLabel renders the state name with its entry and exit actions in the
// Mrecord body.
func dotLabel(s *statemill.StateInfo) string {
	var actions []string
	for _, a := range s.EntryActions {
		actions = append(actions, "entry / "+a.Description())
	}
	for _, a := range s.ExitActions {
		actions = append(actions, "exit / "+a.Description())
	}
	if len(actions) == 0 {
		return s.String()
	}
	return s.String() + "|" + strings.Join(actions, "\\n")
}
