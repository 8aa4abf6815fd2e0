package domain

import (
	"fmt"
	"strings"
)

// Address is the ordered sequence of labels leading from the root to a node.
// The empty Address is the root.
type Address []string

// Root returns the root address.
func Root() Address {
	return Address{}
}

// IsRoot reports whether a is the root address.
func (a Address) IsRoot() bool {
	return len(a) == 0
}

// Child returns a new address extended by label. The receiver is never mutated.
func (a Address) Child(label string) Address {
	next := make(Address, len(a), len(a)+1)
	copy(next, a)
	return append(next, label)
}

// Parent returns the address with its last segment removed.
// The parent of the root is the root.
func (a Address) Parent() Address {
	if a.IsRoot() {
		return Root()
	}
	parent := make(Address, len(a)-1)
	copy(parent, a[:len(a)-1])
	return parent
}

// Last returns the final segment, or "" for the root.
func (a Address) Last() string {
	if a.IsRoot() {
		return ""
	}
	return a[len(a)-1]
}

// Depth is the number of segments.
func (a Address) Depth() int {
	return len(a)
}

// Equal reports whether both addresses hold the same segments.
func (a Address) Equal(other Address) bool {
	if len(a) != len(other) {
		return false
	}
	for i := range a {
		if a[i] != other[i] {
			return false
		}
	}
	return true
}

// Key serializes the address under a namespace: the namespace followed by every
// segment, each preceded by the delimiter.
func (a Address) Key(namespace, delimiter string) string {
	if a.IsRoot() {
		return namespace
	}
	return namespace + delimiter + strings.Join(a, delimiter)
}

func (a Address) String() string {
	return "/" + strings.Join(a, "/")
}

// ParseKey is the inverse of Address.Key.
func ParseKey(key, namespace, delimiter string) (Address, error) {
	if key == namespace {
		return Root(), nil
	}
	prefix := namespace + delimiter
	if !strings.HasPrefix(key, prefix) {
		return nil, fmt.Errorf("key %q is outside namespace %q", key, namespace)
	}
	return Address(strings.Split(strings.TrimPrefix(key, prefix), delimiter)), nil
}
