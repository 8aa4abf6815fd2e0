package keyboard

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anaradzetski/keyboard/internal/compiler"
	"github.com/anaradzetski/keyboard/internal/logging"
	"github.com/anaradzetski/keyboard/internal/runtime"
	"github.com/anaradzetski/keyboard/pkg/adapters/memory"
	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/menu"
	"github.com/anaradzetski/keyboard/pkg/ports"
	"github.com/anaradzetski/keyboard/pkg/session"
)

// Engine is the high-level entry point of the library. It owns one compiled menu
// tree and the positions of every session navigating it.
type Engine struct {
	Name string

	opts        compiler.Options
	store       ports.SessionStore
	locker      ports.DistributedLocker
	gateway     ports.Gateway
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	startNotice *string

	tree     *domain.Tree
	sessions *session.Manager
	router   *runtime.Router
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithName sets the name shown in session notices (default "Keyboard").
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// WithNamespace sets the prefix of every serialized address and of inline
// callback data. Engines sharing one gateway need distinct namespaces.
func WithNamespace(ns string) Option {
	return func(e *Engine) {
		e.opts.Namespace = ns
	}
}

// WithDelimiter sets the separator of serialized addresses (default "::").
func WithDelimiter(d string) Option {
	return func(e *Engine) {
		e.opts.Delimiter = d
	}
}

// WithBackLabel sets the label of the synthetic back button (default "back").
func WithBackLabel(label string) Option {
	return func(e *Engine) {
		e.opts.BackLabel = label
	}
}

// WithDefaultWidth sets the row width of levels that declare no shape (default 3).
func WithDefaultWidth(w int) Option {
	return func(e *Engine) {
		e.opts.DefaultWidth = w
	}
}

// WithStyle selects reply or inline keyboards.
func WithStyle(style domain.KeyboardStyle) Option {
	return func(e *Engine) {
		e.opts.Style = style
	}
}

// WithParseMode sets the formatting hint attached to text leaves (default HTML).
func WithParseMode(mode domain.ParseMode) Option {
	return func(e *Engine) {
		e.opts.ParseMode = mode
	}
}

// WithStore replaces the default in-memory session store.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed locking of sessions, for replicas sharing a store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithGateway sets where replies are rendered.
func WithGateway(g ports.Gateway) Option {
	return func(e *Engine) {
		e.gateway = g
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Multiple calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithStartNotice sets the notice sent before the root menu ("" disables it).
func WithStartNotice(text string) Option {
	return func(e *Engine) {
		e.startNotice = &text
	}
}

// New compiles cfg and returns a ready engine. A malformed configuration yields
// a *domain.CompileError and no engine.
func New(cfg *menu.Config, opts ...Option) (*Engine, error) {
	eng := &Engine{
		Name: domain.DefaultName,
		opts: compiler.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	tree, err := compiler.Compile(cfg, eng.opts)
	if err != nil {
		return nil, err
	}
	eng.tree = tree

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("keyboard", eng.Name)

	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	sessOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessOpts = append(sessOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessOpts...)

	routerOpts := []runtime.Option{
		runtime.WithLogger(eng.logger),
		runtime.WithName(eng.Name),
		runtime.WithLifecycleHooks(eng.hooks),
	}
	if eng.gateway != nil {
		routerOpts = append(routerOpts, runtime.WithGateway(eng.gateway))
	}
	if eng.startNotice != nil {
		routerOpts = append(routerOpts, runtime.WithStartNotice(*eng.startNotice))
	}
	eng.router = runtime.NewRouter(tree, eng.sessions, routerOpts...)

	eng.logger.Debug("Keyboard compiled", "nodes", tree.Len(), "namespace", tree.Namespace())
	return eng, nil
}

// Tree returns the compiled menu.
func (e *Engine) Tree() *domain.Tree {
	return e.tree
}

// Start registers the session at root and renders the root menu.
// Starting a live session resets it to root.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.Transition, error) {
	return e.router.Start(ctx, sessionID)
}

// OnEvent handles a raw button event: reply-button text or inline callback data.
// The back label walks one level up; anything else is a selection.
func (e *Engine) OnEvent(ctx context.Context, sessionID, raw string) (*domain.Transition, error) {
	label := strings.TrimPrefix(raw, e.callbackPrefix())
	if label == e.tree.BackLabel() {
		return e.router.Back(ctx, sessionID)
	}
	return e.router.Select(ctx, sessionID, label)
}

// Select handles the press of a button labelled label.
func (e *Engine) Select(ctx context.Context, sessionID, label string) (*domain.Transition, error) {
	return e.router.Select(ctx, sessionID, label)
}

// Back walks the session one level up.
func (e *Engine) Back(ctx context.Context, sessionID string) (*domain.Transition, error) {
	return e.router.Back(ctx, sessionID)
}

// End renders the finish notice and forgets the session. Ending a session that
// was never started is not an error.
func (e *Engine) End(ctx context.Context, sessionID string) error {
	_, err := e.router.End(ctx, sessionID)
	return err
}

// Position returns the address the session currently occupies.
func (e *Engine) Position(ctx context.Context, sessionID string) (domain.Address, error) {
	return e.router.Position(ctx, sessionID)
}

// Sessions lists the live sessions.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Menu returns the reply showing the submenu at addr.
func (e *Engine) Menu(addr domain.Address) (domain.Reply, bool) {
	node, ok := e.tree.Lookup(addr)
	if !ok || node.Kind != domain.KindSubmenu {
		return domain.Reply{}, false
	}
	return e.router.MenuReply(node), true
}

// Owns reports whether raw inline callback data was produced by this engine.
// Gateways dispatching callbacks to several engines route on it.
func (e *Engine) Owns(raw string) bool {
	return strings.HasPrefix(raw, e.callbackPrefix())
}

func (e *Engine) callbackPrefix() string {
	return e.tree.Namespace() + e.tree.Delimiter()
}
