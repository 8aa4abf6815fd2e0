package menu

import (
	"context"

	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/layout"
)

// ShapeKey is the reserved label carrying a level's layout shape.
const ShapeKey = "__shape__"

// Entry is one label/value pair of a menu level.
//
// Value may be a *Config or Config (submenu), a string (text leaf), a
// domain.ActionFunc or a plain func(context.Context, domain.Event) error (action
// leaf). Under ShapeKey, Value is anything layout.ParseShape accepts.
type Entry struct {
	Label string
	Value any
}

// Config is one level of a nested menu configuration, in declaration order.
type Config struct {
	Entries []Entry
}

// New creates an empty menu level.
func New() *Config {
	return &Config{}
}

// Set appends a raw entry. It is the untyped escape hatch used by loaders.
func (c *Config) Set(label string, value any) *Config {
	c.Entries = append(c.Entries, Entry{Label: label, Value: value})
	return c
}

// Sub adds a nested submenu.
func (c *Config) Sub(label string, sub *Config) *Config {
	return c.Set(label, sub)
}

// Text adds a text leaf.
func (c *Config) Text(label, body string) *Config {
	return c.Set(label, body)
}

// Action adds an action leaf.
func (c *Config) Action(label string, fn func(ctx context.Context, ev domain.Event) error) *Config {
	return c.Set(label, domain.ActionFunc(fn))
}

// Shape sets this level's layout.
func (c *Config) Shape(s layout.Shape) *Config {
	return c.Set(ShapeKey, s)
}

// Width is shorthand for Shape(layout.Fixed(w)).
func (c *Config) Width(w int) *Config {
	return c.Shape(layout.Fixed(w))
}

// Labels returns the declared labels of this level, shape key excluded.
func (c *Config) Labels() []string {
	var out []string
	for _, e := range c.Entries {
		if e.Label != ShapeKey {
			out = append(out, e.Label)
		}
	}
	return out
}

// NamedAction is an action leaf resolved by name, typically from a registry.
// The compiled node keeps the name for introspection.
type NamedAction struct {
	Name    string
	Handler domain.ActionFunc
}
