package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/layout"
	"github.com/anaradzetski/keyboard/pkg/ports"
	"github.com/google/uuid"
)

// DefaultStartNotice is rendered before the root menu when a session starts.
const DefaultStartNotice = "Starting..."

// payload invokes exactly one effect for the node a transition resolved to.
func (r *Router) payload(ctx context.Context, tr *domain.Transition, label string) error {
	node := tr.Node
	switch node.Kind {
	case domain.KindSubmenu:
		return r.render(ctx, tr.SessionID, r.MenuReply(node))
	case domain.KindText:
		return r.render(ctx, tr.SessionID, domain.Reply{
			Kind:      domain.ReplyText,
			Text:      node.Body,
			ParseMode: node.ParseMode,
		})
	case domain.KindAction:
		ev := domain.Event{SessionID: tr.SessionID, Label: label, Address: node.Address}
		if err := node.Handler(ctx, ev); err != nil {
			return fmt.Errorf("action %s: %w", node.Address, err)
		}
		return nil
	}
	return fmt.Errorf("node %s has unknown kind %d", node.Address, node.Kind)
}

// MenuReply builds the reply that shows a submenu: its address key as title and
// its button grid in the tree's keyboard style.
func (r *Router) MenuReply(node *domain.Node) domain.Reply {
	prefix := r.tree.Namespace() + r.tree.Delimiter()
	return domain.Reply{
		Kind:     domain.ReplyMenu,
		Text:     r.tree.Key(node.Address),
		Keyboard: layout.Markup(node.Layout, r.tree.Style(), prefix),
	}
}

// render sends a reply, preceded by a typing indicator for menus and texts when
// the gateway supports it.
func (r *Router) render(ctx context.Context, sessionID string, reply domain.Reply) error {
	if reply.Kind != domain.ReplyNotice {
		if tn, ok := r.gateway.(ports.TypingNotifier); ok {
			if err := tn.Typing(ctx, sessionID); err != nil {
				r.logger.Debug("Typing indicator failed", "session_id", sessionID, "err", err)
			}
		}
	}
	if err := r.gateway.Render(ctx, sessionID, reply); err != nil {
		return fmt.Errorf("render %s reply: %w", reply.Kind, err)
	}
	return nil
}

func (r *Router) base(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      t,
		SessionID: sessionID,
	}
}
