// Package graph renders a compiled menu as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/anaradzetski/keyboard/pkg/domain"
)

// GraphOverlay contains live session data to visualize on the graph.
type GraphOverlay struct {
	// Occupied are serialized addresses that at least one session sits on.
	Occupied []string
	// Current is highlighted on top of Occupied.
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of the tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Submenu: [Rectangle]
// - Text leaf: (Rounded)
// - Action leaf: [[Subroutine]]
// Nodes are identified by position, so labels never need escaping beyond quotes.
func GenerateMermaid(tree *domain.Tree, overlay *GraphOverlay) string {
	nodes := tree.Nodes()
	ids := make(map[string]string, len(nodes))
	for i, n := range nodes {
		ids[tree.Key(n.Address)] = fmt.Sprintf("n%d", i)
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		key := tree.Key(node.Address)
		id := ids[key]

		opener, closer := "[", "]"
		switch {
		case node.Address.IsRoot():
			opener, closer = "((", "))"
		case node.Kind == domain.KindText:
			opener, closer = "(", ")"
		case node.Kind == domain.KindAction:
			opener, closer = "[[", "]]"
		}

		label := tree.Namespace()
		if !node.Address.IsRoot() {
			label = node.Address.Last()
		}
		if node.ActionName != "" {
			label += " <br/> " + node.ActionName
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(label), closer)

		for _, child := range node.Children {
			fmt.Fprintf(&sb, "    %s --> %s\n", id, ids[tree.Key(node.Address.Child(child))])
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef occupied fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, key := range overlay.Occupied {
			id, ok := ids[key]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s occupied;\n", id)
		}
		if id, ok := ids[overlay.Current]; ok {
			fmt.Fprintf(&sb, "    class %s current;\n", id)
		}
	}

	return sb.String()
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "#quot;")
}
