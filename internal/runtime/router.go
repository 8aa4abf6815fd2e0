package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/anaradzetski/keyboard/internal/logging"
	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/ports"
	"github.com/anaradzetski/keyboard/pkg/session"
)

// Router moves sessions through a compiled tree and invokes node payloads.
//
// The read-modify-write of a session position runs under the session lock.
// Payloads (renders and action handlers) run after the lock is released, so a
// handler may call back into the engine for its own session.
type Router struct {
	tree     *domain.Tree
	sessions *session.Manager
	gateway  ports.Gateway
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	name         string
	startNotice  string
	suggestLimit int
}

// Option configures the Router.
type Option func(*Router)

// WithGateway sets where replies are rendered. Without one, replies are dropped.
func WithGateway(g ports.Gateway) Option {
	return func(r *Router) {
		r.gateway = g
	}
}

// WithLogger configures a logger for the Router.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Router) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithName sets the name used in session notices.
func WithName(name string) Option {
	return func(r *Router) {
		r.name = name
	}
}

// WithStartNotice sets the notice rendered before the root menu on Start.
// An empty notice disables it.
func WithStartNotice(text string) Option {
	return func(r *Router) {
		r.startNotice = text
	}
}

// WithSuggestionDistance sets the maximum edit distance of "did you mean"
// suggestions. Zero disables suggestions.
func WithSuggestionDistance(d int) Option {
	return func(r *Router) {
		r.suggestLimit = d
	}
}

// NewRouter creates a router over an immutable tree.
func NewRouter(tree *domain.Tree, sessions *session.Manager, opts ...Option) *Router {
	r := &Router{
		tree:         tree,
		sessions:     sessions,
		gateway:      ports.GatewayFunc(func(context.Context, string, domain.Reply) error { return nil }),
		logger:       logging.NewNop(),
		name:         domain.DefaultName,
		startNotice:  DefaultStartNotice,
		suggestLimit: DefaultSuggestionDistance,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tree returns the compiled tree the router navigates.
func (r *Router) Tree() *domain.Tree {
	return r.tree
}

// Start registers the session at root, resetting any previous position, and
// renders the root menu.
func (r *Router) Start(ctx context.Context, sessionID string) (*domain.Transition, error) {
	begin := time.Now()

	if r.startNotice != "" {
		if err := r.render(ctx, sessionID, domain.Reply{Kind: domain.ReplyNotice, Text: r.startNotice}); err != nil {
			return nil, fmt.Errorf("start %q: %w: %w", sessionID, domain.ErrPayload, err)
		}
	}

	previous, replaced, err := r.sessions.Start(ctx, sessionID, r.tree.RootKey())
	if err != nil {
		return nil, fmt.Errorf("start %q: %w", sessionID, err)
	}
	var from domain.Address
	if replaced {
		from, _ = r.tree.Parse(previous)
	}

	if r.hooks.OnSessionStart != nil {
		r.hooks.OnSessionStart(ctx, &domain.SessionEvent{
			EventBase: r.base(domain.EventSessionStart, sessionID),
			Existed:   replaced,
		})
	}

	tr := &domain.Transition{
		SessionID: sessionID,
		Kind:      domain.TransitionStart,
		From:      from,
		To:        domain.Root(),
		Node:      r.tree.Root(),
	}
	return tr, r.finish(ctx, tr, "", begin)
}

// Select handles a button press on label.
func (r *Router) Select(ctx context.Context, sessionID, label string) (*domain.Transition, error) {
	begin := time.Now()

	var tr *domain.Transition
	err := r.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		cur, err := r.current(ctx, sessionID, domain.TransitionSelect, label)
		if err != nil {
			return err
		}

		// Only direct children are selectable. A label carrying the delimiter
		// would otherwise serialize to a deeper key.
		target := cur.Address.Child(label)
		node, ok := r.tree.Lookup(target)
		if !ok || !slices.Contains(cur.Children, label) {
			return &domain.RouterError{
				Kind:       domain.ErrUnknownSelection,
				SessionID:  sessionID,
				Address:    cur.Address,
				Label:      label,
				Suggestion: suggest(label, cur.Children, r.suggestLimit),
			}
		}

		to := cur.Address
		if node.Kind == domain.KindSubmenu {
			if err := r.sessions.Store().Set(ctx, sessionID, r.tree.Key(target)); err != nil {
				return fmt.Errorf("failed to save session position: %w", err)
			}
			to = target
		}

		tr = &domain.Transition{
			SessionID: sessionID,
			Kind:      domain.TransitionSelect,
			From:      cur.Address,
			To:        to,
			Node:      node,
		}
		return nil
	})
	if err != nil {
		return nil, r.reject(ctx, sessionID, domain.TransitionSelect, label, err)
	}

	return tr, r.finish(ctx, tr, label, begin)
}

// Back moves the session to the parent submenu and re-renders it.
// At root it fails with ErrAlreadyAtRoot and leaves the session untouched.
func (r *Router) Back(ctx context.Context, sessionID string) (*domain.Transition, error) {
	begin := time.Now()

	var tr *domain.Transition
	err := r.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		cur, err := r.current(ctx, sessionID, domain.TransitionBack, "")
		if err != nil {
			return err
		}
		if cur.Address.IsRoot() {
			return &domain.RouterError{
				Kind:      domain.ErrAlreadyAtRoot,
				SessionID: sessionID,
				Address:   cur.Address,
			}
		}

		parent := cur.Address.Parent()
		node, ok := r.tree.Lookup(parent)
		if !ok {
			return fmt.Errorf("tree has no parent for %s", cur.Address)
		}
		if err := r.sessions.Store().Set(ctx, sessionID, r.tree.Key(parent)); err != nil {
			return fmt.Errorf("failed to save session position: %w", err)
		}

		tr = &domain.Transition{
			SessionID: sessionID,
			Kind:      domain.TransitionBack,
			From:      cur.Address,
			To:        parent,
			Node:      node,
		}
		return nil
	})
	if err != nil {
		return nil, r.reject(ctx, sessionID, domain.TransitionBack, "", err)
	}

	return tr, r.finish(ctx, tr, r.tree.BackLabel(), begin)
}

// End removes the session and renders the finish notice. Ending a session that
// was never started only renders a notice saying so.
func (r *Router) End(ctx context.Context, sessionID string) (bool, error) {
	existed, err := r.sessions.End(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("end %q: %w", sessionID, err)
	}

	if existed && r.hooks.OnSessionEnd != nil {
		r.hooks.OnSessionEnd(ctx, &domain.SessionEvent{
			EventBase: r.base(domain.EventSessionEnd, sessionID),
			Existed:   existed,
		})
	}
	r.logger.Debug("session ended", "session_id", sessionID, "existed", existed)

	notice := domain.Reply{Kind: domain.ReplyNotice}
	if existed {
		notice.Text = fmt.Sprintf("Finishing %s...", r.name)
		notice.RemoveKeyboard = r.tree.Style() == domain.StyleReply
	} else {
		notice.Text = fmt.Sprintf("%s was not started.", r.name)
	}
	if err := r.render(ctx, sessionID, notice); err != nil {
		return existed, fmt.Errorf("end %q: %w: %w", sessionID, domain.ErrPayload, err)
	}
	return existed, nil
}

// Position returns the current address of a live session.
func (r *Router) Position(ctx context.Context, sessionID string) (domain.Address, error) {
	key, err := r.sessions.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotStarted) {
		return nil, &domain.RouterError{Kind: domain.ErrNotStarted, SessionID: sessionID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	node, ok := r.tree.LookupKey(key)
	if !ok || node.Kind != domain.KindSubmenu {
		r.logger.Warn("Session position is not a submenu of this tree", "session_id", sessionID, "address", key)
		return nil, &domain.RouterError{Kind: domain.ErrNotStarted, SessionID: sessionID}
	}
	return node.Address, nil
}

// current loads the node a session sits on. The caller holds the session lock.
func (r *Router) current(ctx context.Context, sessionID string, kind domain.TransitionKind, label string) (*domain.Node, error) {
	key, err := r.sessions.Store().Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotStarted) {
		return nil, &domain.RouterError{Kind: domain.ErrNotStarted, SessionID: sessionID, Label: label}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	node, ok := r.tree.LookupKey(key)
	if !ok || node.Kind != domain.KindSubmenu {
		// A position written by another tree (e.g. an older configuration sharing
		// the Redis store) is treated as no session at all.
		r.logger.Warn("Session position is not a submenu of this tree",
			"session_id", sessionID,
			"address", key,
			"op", kind,
		)
		return nil, &domain.RouterError{Kind: domain.ErrNotStarted, SessionID: sessionID, Label: label}
	}
	return node, nil
}

func (r *Router) reject(ctx context.Context, sessionID string, kind domain.TransitionKind, label string, err error) error {
	var re *domain.RouterError
	if !errors.As(err, &re) {
		return fmt.Errorf("%s %q: %w", kind, sessionID, err)
	}

	r.logger.Warn("Rejected navigation event",
		"session_id", sessionID,
		"op", kind,
		"label", label,
		"err", err,
	)
	if r.hooks.OnRouterError != nil {
		r.hooks.OnRouterError(ctx, &domain.ErrorEvent{
			EventBase: r.base(domain.EventRouterError, sessionID),
			Kind:      kind,
			Label:     label,
			Err:       err,
		})
	}
	return err
}

// finish runs the payload of a committed transition and reports it.
func (r *Router) finish(ctx context.Context, tr *domain.Transition, label string, begin time.Time) error {
	payloadErr := r.payload(ctx, tr, label)

	r.logger.Debug("transition",
		"session_id", tr.SessionID,
		"op", tr.Kind,
		"from", tr.From.String(),
		"to", tr.To.String(),
		"node", tr.Node.Kind,
	)
	if r.hooks.OnTransition != nil {
		r.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase:  r.base(domain.EventTransition, tr.SessionID),
			Kind:       tr.Kind,
			From:       r.tree.Key(tr.From),
			To:         r.tree.Key(tr.To),
			NodeKind:   tr.Node.Kind.String(),
			Duration:   time.Since(begin),
			PayloadErr: payloadErr,
		})
	}

	if payloadErr != nil {
		r.logger.Warn("Payload failed after transition was committed",
			"session_id", tr.SessionID,
			"address", tr.Node.Address.String(),
			"err", payloadErr,
		)
		return fmt.Errorf("%s %q: %w: %w", tr.Kind, tr.SessionID, domain.ErrPayload, payloadErr)
	}
	return nil
}
