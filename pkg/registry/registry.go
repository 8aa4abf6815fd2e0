// Package registry maps action names to handlers so menus loaded from files can
// refer to Go code.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/menu"
)

// ErrActionNotFound is returned when a name has no registered handler.
var ErrActionNotFound = errors.New("action not found")

// Registry manages the available actions.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]domain.ActionFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]domain.ActionFunc),
	}
}

// Register adds an action to the registry.
// If an action with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn domain.ActionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (domain.ActionFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.actions[name]
	return fn, ok
}

// Resolve returns a menu value bound to the named handler.
func (r *Registry) Resolve(name string) (menu.NamedAction, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return menu.NamedAction{}, fmt.Errorf("%w: %s", ErrActionNotFound, name)
	}
	return menu.NamedAction{Name: name, Handler: fn}, nil
}

// Names lists the registered actions, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
