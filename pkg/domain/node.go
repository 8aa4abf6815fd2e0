package domain

// NodeKind is the closed set of compiled node variants.
type NodeKind int

const (
	// KindSubmenu renders a grid of child buttons and becomes the session position.
	KindSubmenu NodeKind = iota + 1
	// KindText replies with a literal body; the session position does not change.
	KindText
	// KindAction calls an application handler; the session position does not change.
	KindAction
)

func (k NodeKind) String() string {
	switch k {
	case KindSubmenu:
		return "submenu"
	case KindText:
		return "text"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// IsLeaf reports whether selecting a node of this kind keeps the session in place.
func (k NodeKind) IsLeaf() bool {
	return k == KindText || k == KindAction
}

// Node represents one compiled entry of the menu tree.
type Node struct {
	Address Address
	Kind    NodeKind

	// Submenu
	Children []string   // declared order, distinct
	Layout   [][]string // button rows, back row included unless root

	// Text leaf
	Body      string
	ParseMode ParseMode

	// Action leaf
	Handler    ActionFunc
	ActionName string // registry name when the handler was resolved by name
}

// HasChild reports whether label is a direct child of a submenu node.
func (n *Node) HasChild(label string) bool {
	for _, c := range n.Children {
		if c == label {
			return true
		}
	}
	return false
}
