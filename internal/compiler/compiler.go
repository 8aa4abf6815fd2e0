package compiler

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/layout"
	"github.com/anaradzetski/keyboard/pkg/menu"
)

// Options control how a configuration is compiled.
type Options struct {
	Namespace    string
	Delimiter    string
	BackLabel    string
	DefaultWidth int
	Style        domain.KeyboardStyle
	// ParseMode is attached to every text leaf.
	ParseMode domain.ParseMode
}

// DefaultOptions mirror the historical keyboard behaviour.
func DefaultOptions() Options {
	return Options{
		Namespace:    domain.DefaultNamespace,
		Delimiter:    domain.DefaultDelimiter,
		BackLabel:    domain.DefaultBackLabel,
		DefaultWidth: domain.DefaultRowWidth,
		Style:        domain.StyleReply,
		ParseMode:    domain.ParseHTML,
	}
}

type frame struct {
	addr domain.Address
	cfg  *menu.Config
	path []*menu.Config // enclosing levels, for cycle detection
}

// Compile walks cfg depth-first and produces the immutable menu tree.
// On any error no tree is returned.
func Compile(cfg *menu.Config, opts Options) (*domain.Tree, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = menu.New()
	}

	var nodes []*domain.Node
	// Labels may contain fragments of the delimiter, so distinct addresses can
	// still serialize to the same key.
	keys := make(map[string]bool)
	add := func(n *domain.Node) error {
		key := n.Address.Key(opts.Namespace, opts.Delimiter)
		if keys[key] {
			return &domain.CompileError{
				Address: n.Address.Parent(),
				Label:   n.Address.Last(),
				Err:     fmt.Errorf("%w: %q", domain.ErrAddressCollision, key),
			}
		}
		keys[key] = true
		nodes = append(nodes, n)
		return nil
	}
	stack := []frame{{addr: domain.Root(), cfg: cfg}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sub, children, err := compileLevel(cur.addr, cur.cfg, opts)
		if err != nil {
			return nil, err
		}
		if err := add(sub); err != nil {
			return nil, err
		}

		// Push in reverse so children are visited in declaration order.
		for i := len(children) - 1; i >= 0; i-- {
			e := children[i]
			addr := cur.addr.Child(e.Label)

			leaf, nested, err := compileValue(addr, e, opts)
			if err != nil {
				return nil, err
			}
			if nested != nil {
				path := append(slices.Clip(cur.path), cur.cfg)
				if slices.Contains(path, nested) {
					return nil, &domain.CompileError{Address: cur.addr, Label: e.Label, Err: fmt.Errorf("%w: cyclic submenu", domain.ErrUnsupportedValue)}
				}
				stack = append(stack, frame{addr: addr, cfg: nested, path: path})
				continue
			}
			if err := add(leaf); err != nil {
				return nil, err
			}
		}
	}

	return domain.NewTree(opts.Namespace, opts.Delimiter, opts.BackLabel, opts.Style, nodes), nil
}

func validateOptions(opts Options) error {
	switch {
	case opts.Delimiter == "":
		return &domain.CompileError{Address: domain.Root(), Err: fmt.Errorf("%w: empty delimiter", domain.ErrInvalidNamespace)}
	case opts.Namespace == "":
		return &domain.CompileError{Address: domain.Root(), Err: fmt.Errorf("%w: empty namespace", domain.ErrInvalidNamespace)}
	case strings.Contains(opts.Namespace, opts.Delimiter):
		return &domain.CompileError{Address: domain.Root(), Err: fmt.Errorf("%w: %q contains delimiter %q", domain.ErrInvalidNamespace, opts.Namespace, opts.Delimiter)}
	case opts.BackLabel == "":
		return &domain.CompileError{Address: domain.Root(), Err: fmt.Errorf("%w: empty back label", domain.ErrReservedLabel)}
	case strings.Contains(opts.BackLabel, opts.Delimiter):
		return &domain.CompileError{Address: domain.Root(), Label: opts.BackLabel, Err: domain.ErrDelimiterInLabel}
	}
	switch opts.Style {
	case domain.StyleReply, domain.StyleInline:
	default:
		return &domain.CompileError{Address: domain.Root(), Err: fmt.Errorf("%w: %q", domain.ErrInvalidStyle, opts.Style)}
	}
	if opts.DefaultWidth <= 0 {
		return &domain.CompileError{Address: domain.Root(), Err: fmt.Errorf("%w: default width %d", domain.ErrInvalidShape, opts.DefaultWidth)}
	}
	return nil
}

// compileLevel validates one mapping level and builds its submenu node.
// It returns the entries that still have to be compiled.
func compileLevel(addr domain.Address, cfg *menu.Config, opts Options) (*domain.Node, []menu.Entry, error) {
	shape := layout.Fixed(opts.DefaultWidth)
	shapeSeen := false
	seen := make(map[string]bool, len(cfg.Entries))
	children := make([]menu.Entry, 0, len(cfg.Entries))

	for _, e := range cfg.Entries {
		if e.Label == menu.ShapeKey {
			if shapeSeen {
				return nil, nil, &domain.CompileError{Address: addr, Label: e.Label, Err: domain.ErrDuplicateLabel}
			}
			shapeSeen = true
			s, err := layout.ParseShape(e.Value)
			if err != nil {
				return nil, nil, &domain.CompileError{Address: addr, Label: e.Label, Err: err}
			}
			shape = s
			continue
		}
		if err := checkLabel(e.Label, opts); err != nil {
			return nil, nil, &domain.CompileError{Address: addr, Label: e.Label, Err: err}
		}
		if seen[e.Label] {
			return nil, nil, &domain.CompileError{Address: addr, Label: e.Label, Err: domain.ErrDuplicateLabel}
		}
		seen[e.Label] = true
		children = append(children, e)
	}

	labels := make([]string, len(children))
	for i, e := range children {
		labels[i] = e.Label
	}

	rows, err := layout.Layout(labels, shape)
	if err != nil {
		return nil, nil, &domain.CompileError{Address: addr, Label: menu.ShapeKey, Err: err}
	}
	if !addr.IsRoot() {
		rows = append(rows, []string{opts.BackLabel})
	}

	return &domain.Node{
		Address:  addr,
		Kind:     domain.KindSubmenu,
		Children: labels,
		Layout:   rows,
	}, children, nil
}

func checkLabel(label string, opts Options) error {
	switch {
	case label == "":
		return domain.ErrEmptyLabel
	case strings.Contains(label, opts.Delimiter):
		return domain.ErrDelimiterInLabel
	case label == opts.BackLabel:
		return domain.ErrReservedLabel
	}
	return nil
}

// compileValue resolves the variant of one entry. Submenus are returned as nested
// configs for the caller to push; leaves are returned as finished nodes.
func compileValue(addr domain.Address, e menu.Entry, opts Options) (*domain.Node, *menu.Config, error) {
	switch v := e.Value.(type) {
	case *menu.Config:
		if v == nil {
			break
		}
		return nil, v, nil
	case menu.Config:
		return nil, &v, nil
	case string:
		return &domain.Node{Address: addr, Kind: domain.KindText, Body: v, ParseMode: opts.ParseMode}, nil, nil
	case domain.ActionFunc:
		if v == nil {
			break
		}
		return &domain.Node{Address: addr, Kind: domain.KindAction, Handler: v}, nil, nil
	case func(context.Context, domain.Event) error:
		if v == nil {
			break
		}
		return &domain.Node{Address: addr, Kind: domain.KindAction, Handler: v}, nil, nil
	case menu.NamedAction:
		if v.Handler == nil {
			return nil, nil, &domain.CompileError{Address: addr.Parent(), Label: e.Label, Err: fmt.Errorf("%w: action %q has no handler", domain.ErrUnsupportedValue, v.Name)}
		}
		return &domain.Node{Address: addr, Kind: domain.KindAction, Handler: v.Handler, ActionName: v.Name}, nil, nil
	}
	return nil, nil, &domain.CompileError{
		Address: addr.Parent(),
		Label:   e.Label,
		Err:     fmt.Errorf("%w: %T", domain.ErrUnsupportedValue, e.Value),
	}
}
