// Package dto holds the JSON shapes shared by the transports and the CLI.
package dto

import (
	"errors"

	"github.com/anaradzetski/keyboard/pkg/domain"
)

// Node is the wire form of a compiled node.
type Node struct {
	Key      string     `json:"key"`
	Address  []string   `json:"address"`
	Kind     string     `json:"kind"`
	Children []string   `json:"children,omitempty"`
	Layout   [][]string `json:"layout,omitempty"`
	Body     string     `json:"body,omitempty"`
	Action   string     `json:"action,omitempty"`
}

// Tree is the wire form of a compiled menu.
type Tree struct {
	Namespace string `json:"namespace"`
	Delimiter string `json:"delimiter"`
	BackLabel string `json:"back_label"`
	Style     string `json:"style"`
	Nodes     []Node `json:"nodes"`
}

// Transition is the outcome of one event as returned to remote callers.
type Transition struct {
	SessionID string         `json:"session_id"`
	Op        string         `json:"op,omitempty"`
	From      string         `json:"from,omitempty"`
	To        string         `json:"to,omitempty"`
	NodeKind  string         `json:"node_kind,omitempty"`
	Replies   []domain.Reply `json:"replies"`
	Error     *Error         `json:"error,omitempty"`
}

// Error describes a failed event.
type Error struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Label      string `json:"label,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// FromTree converts a compiled tree, nodes in address order.
func FromTree(t *domain.Tree) Tree {
	out := Tree{
		Namespace: t.Namespace(),
		Delimiter: t.Delimiter(),
		BackLabel: t.BackLabel(),
		Style:     string(t.Style()),
	}
	for _, n := range t.Nodes() {
		out.Nodes = append(out.Nodes, FromNode(t, n))
	}
	return out
}

// FromNode converts a single node.
func FromNode(t *domain.Tree, n *domain.Node) Node {
	addr := n.Address
	if addr == nil {
		addr = domain.Root()
	}
	return Node{
		Key:      t.Key(n.Address),
		Address:  append([]string{}, addr...),
		Kind:     n.Kind.String(),
		Children: n.Children,
		Layout:   n.Layout,
		Body:     n.Body,
		Action:   n.ActionName,
	}
}

// FromTransition converts a committed transition. tr may be nil when the event
// was rejected.
func FromTransition(t *domain.Tree, sessionID string, tr *domain.Transition, replies []domain.Reply) Transition {
	out := Transition{SessionID: sessionID, Replies: replies}
	if out.Replies == nil {
		out.Replies = []domain.Reply{}
	}
	if tr != nil {
		out.Op = string(tr.Kind)
		// End carries no node and no positions.
		if tr.Node != nil {
			out.From = t.Key(tr.From)
			out.To = t.Key(tr.To)
			out.NodeKind = tr.Node.Kind.String()
		}
	}
	return out
}

// FromError classifies an engine error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	out := &Error{Kind: ErrorKind(err), Message: err.Error()}
	var re *domain.RouterError
	if errors.As(err, &re) {
		out.Label = re.Label
		out.Suggestion = re.Suggestion
	}
	return out
}

// ErrorKind names the class of err: not_started, unknown_selection,
// already_at_root, payload or internal.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotStarted):
		return "not_started"
	case errors.Is(err, domain.ErrUnknownSelection):
		return "unknown_selection"
	case errors.Is(err, domain.ErrAlreadyAtRoot):
		return "already_at_root"
	case errors.Is(err, domain.ErrPayload):
		return "payload"
	default:
		return "internal"
	}
}
