package graph

import (
	"fmt"
	"strings"

	"github.com/statemill/statemill"
)

// Mermaid renders the machine as a Mermaid stateDiagram-v2.
func Mermaid(info *statemill.MachineInfo) string {
	return MermaidWithDirection(info, "")
}

// MermaidWithDirection renders the machine as a Mermaid stateDiagram-v2 with
// an explicit flow direction.
func MermaidWithDirection(info *statemill.MachineInfo, direction Direction) string {
	m := buildModel(info)

	var sb strings.Builder
	sb.WriteString("stateDiagram-v2")
	if direction != "" {
		fmt.Fprintf(&sb, "\n\tdirection %s", direction)
	}

	// Aliases for states whose display name required sanitizing.
	for _, s := range m.states {
		if name := m.names[s]; name != s.String() {
			fmt.Fprintf(&sb, "\n\t%s : %s", name, s.String())
		}
	}

	for _, root := range m.roots {
		writeMermaidState(&sb, m, root, "\t")
	}

	if m.initial != "" {
		fmt.Fprintf(&sb, "\n\t[*] --> %s", m.initial)
	}

	for _, e := range m.edges {
		label := e.label
		if e.internal {
			label += " (internal)"
		}
		fmt.Fprintf(&sb, "\n\t%s --> %s : %s", e.source, e.target, label)
	}

	sb.WriteString("\n")
	return sb.String()
}

// writeMermaidState declares composite states as nested blocks; leaf states
// need no declaration beyond their alias.
func writeMermaidState(sb *strings.Builder, m *model, s *statemill.StateInfo, indent string) {
	if len(s.Substates) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%sstate %s {", indent, m.names[s])
	for _, sub := range s.Substates {
		if len(sub.Substates) > 0 {
			writeMermaidState(sb, m, sub, indent+"\t")
		} else {
			fmt.Fprintf(sb, "\n%s\t%s", indent, m.names[sub])
		}
	}
	fmt.Fprintf(sb, "\n%s}", indent)
}
