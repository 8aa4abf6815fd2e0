package domain

import (
	"slices"
	"sort"
)

// Tree is the compiled, immutable menu. It is safe for concurrent reads.
type Tree struct {
	namespace string
	delimiter string
	backLabel string
	style     KeyboardStyle
	nodes     map[string]*Node
}

// NewTree assembles a tree from already validated nodes.
// It is meant for the compiler; callers should go through keyboard.New.
func NewTree(namespace, delimiter, backLabel string, style KeyboardStyle, nodes []*Node) *Tree {
	t := &Tree{
		namespace: namespace,
		delimiter: delimiter,
		backLabel: backLabel,
		style:     style,
		nodes:     make(map[string]*Node, len(nodes)),
	}
	for _, n := range nodes {
		t.nodes[n.Address.Key(namespace, delimiter)] = n
	}
	return t
}

func (t *Tree) Namespace() string { return t.namespace }
func (t *Tree) Delimiter() string { return t.delimiter }
func (t *Tree) BackLabel() string { return t.backLabel }
func (t *Tree) Style() KeyboardStyle { return t.style }
func (t *Tree) Len() int { return len(t.nodes) }
func (t *Tree) Key(addr Address) string { return addr.Key(t.namespace, t.delimiter) }
func (t *Tree) RootKey() string { return t.namespace }

// Lookup resolves an address to its node.
func (t *Tree) Lookup(addr Address) (*Node, bool) {
	return t.LookupKey(t.Key(addr))
}

// LookupKey resolves a serialized address to its node.
func (t *Tree) LookupKey(key string) (*Node, bool) {
	n, ok := t.nodes[key]
	return n, ok
}

// Parse converts a serialized key of this tree back into an Address.
func (t *Tree) Parse(key string) (Address, error) {
	return ParseKey(key, t.namespace, t.delimiter)
}

// Root returns the root submenu.
func (t *Tree) Root() *Node {
	return t.nodes[t.namespace]
}

// Keys returns every serialized address, sorted.
func (t *Tree) Keys() []string {
	keys := make([]string, 0, len(t.nodes))
	for k := range t.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Nodes returns every node ordered by key.
func (t *Tree) Nodes() []*Node {
	keys := t.Keys()
	out := make([]*Node, len(keys))
	for i, k := range keys {
		out[i] = t.nodes[k]
	}
	return out
}

// Equal reports extensional equality: same addresses, kinds, children, layouts and
// bodies. Action handlers are compared by presence only.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.nodes) != len(other.nodes) {
		return false
	}
	for k, a := range t.nodes {
		b, ok := other.nodes[k]
		if !ok {
			return false
		}
		if a.Kind != b.Kind || a.Body != b.Body || a.ActionName != b.ActionName {
			return false
		}
		if !slices.Equal(a.Children, b.Children) {
			return false
		}
		if !slices.EqualFunc(a.Layout, b.Layout, slices.Equal[[]string]) {
			return false
		}
		if (a.Handler == nil) != (b.Handler == nil) {
			return false
		}
	}
	return true
}
