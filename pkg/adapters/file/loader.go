// Package file loads keyboard menus from YAML (or JSON) documents.
//
// A document has two top-level keys:
//
//	settings:
//	  name: Cats
//	  style: inline
//	menu:
//	  cat is somewhere here:
//	    deeper...: "<b> Oops, not here </b>"
//	  or here...:
//	    __shape__: [1, -1]
//	    deeper...:
//	      cat!: !action send_cat
//
// Mappings are submenus, strings are text leaves and scalars tagged !action name
// a handler of the registry passed to the loader. Declaration order is kept.
package file

import (
	"errors"
	"fmt"
	"os"

	"github.com/anaradzetski/keyboard/pkg/menu"
	"github.com/anaradzetski/keyboard/pkg/registry"
	"gopkg.in/yaml.v3"
)

// ActionTag marks a scalar as the name of a registered action.
const ActionTag = "!action"

// ErrInvalidDocument is returned for documents that are not valid menu files.
var ErrInvalidDocument = errors.New("invalid menu document")

// Document is a parsed menu file.
type Document struct {
	Settings Settings
	Menu     *menu.Config
}

// Load reads and parses the menu file at path.
func Load(path string, reg *registry.Registry) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	doc, err := Parse(data, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a menu document. reg may be nil when the menu has no actions.
func Parse(data []byte, reg *registry.Registry) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping", ErrInvalidDocument, top.Line)
	}

	doc := &Document{Settings: DefaultSettings()}
	var menuNode *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "settings":
			if err := decodeSettings(val, &doc.Settings); err != nil {
				return nil, err
			}
		case "menu":
			menuNode = val
		default:
			return nil, fmt.Errorf("%w: line %d: unknown key %q", ErrInvalidDocument, key.Line, key.Value)
		}
	}
	if menuNode == nil {
		return nil, fmt.Errorf("%w: missing menu", ErrInvalidDocument)
	}

	b := builder{reg: reg, path: map[*yaml.Node]bool{}}
	cfg, err := b.level(menuNode)
	if err != nil {
		return nil, err
	}
	doc.Menu = cfg
	return doc, nil
}

type builder struct {
	reg  *registry.Registry
	path map[*yaml.Node]bool // mappings being built, to reject recursive aliases
}

func (b *builder) level(n *yaml.Node) (*menu.Config, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: menu level must be a mapping", ErrInvalidDocument, n.Line)
	}
	if b.path[n] {
		return nil, fmt.Errorf("%w: line %d: recursive alias", ErrInvalidDocument, n.Line)
	}
	b.path[n] = true
	defer delete(b.path, n)

	cfg := menu.New()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], resolve(n.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: labels must be scalars", ErrInvalidDocument, key.Line)
		}
		v, err := b.value(key.Value, val)
		if err != nil {
			return nil, err
		}
		cfg.Set(key.Value, v)
	}
	return cfg, nil
}

// value converts one entry. Anything the compiler rejects (numbers, nulls) is
// passed through so the error carries the menu address.
func (b *builder) value(label string, n *yaml.Node) (any, error) {
	if label == menu.ShapeKey {
		var shape any
		if err := n.Decode(&shape); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidDocument, n.Line, err)
		}
		return shape, nil
	}

	switch n.Kind {
	case yaml.MappingNode:
		return b.level(n)
	case yaml.ScalarNode:
		switch n.Tag {
		case ActionTag:
			if b.reg == nil {
				return nil, fmt.Errorf("%w: line %d: action %q without a registry", ErrInvalidDocument, n.Line, n.Value)
			}
			action, err := b.reg.Resolve(n.Value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return action, nil
		case "!!str":
			return n.Value, nil
		}
	}

	var raw any
	if err := n.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidDocument, n.Line, err)
	}
	return raw, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
