// Package capture provides an in-process Gateway that records replies instead of
// sending them. Request/response transports (HTTP, MCP) use a context-scoped
// Collector to return exactly the replies one call produced.
package capture

import (
	"context"
	"slices"
	"sync"

	"github.com/anaradzetski/keyboard/pkg/domain"
)

type collectorKey struct{}

// Collector accumulates the replies rendered under one context.
type Collector struct {
	mu      sync.Mutex
	replies []domain.Reply
}

// Replies returns a copy of what was collected so far.
func (c *Collector) Replies() []domain.Reply {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.replies)
}

func (c *Collector) add(r domain.Reply) {
	c.mu.Lock()
	c.replies = append(c.replies, r)
	c.mu.Unlock()
}

// NewContext returns a context whose renders are also appended to the returned Collector.
func NewContext(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// FromContext returns the collector attached by NewContext, if any.
func FromContext(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	return c, ok
}

// Gateway implements ports.Gateway and ports.TypingNotifier in memory.
// Safe for concurrent use.
type Gateway struct {
	mu      sync.Mutex
	keep    bool
	history map[string][]domain.Reply
	typing  map[string]int
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithoutHistory stops the gateway from keeping per-session history. Only
// context collectors receive replies; long-running servers use this.
func WithoutHistory() Option {
	return func(g *Gateway) {
		g.keep = false
	}
}

// New creates a gateway that keeps every reply per session.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		keep:    true,
		history: make(map[string][]domain.Reply),
		typing:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Render(ctx context.Context, sessionID string, reply domain.Reply) error {
	if c, ok := FromContext(ctx); ok {
		c.add(reply)
	}
	if !g.keep {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.history[sessionID] = append(g.history[sessionID], reply)
	return nil
}

func (g *Gateway) Typing(ctx context.Context, sessionID string) error {
	if !g.keep {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.typing[sessionID]++
	return nil
}

// History returns every reply rendered for the session.
func (g *Gateway) History(sessionID string) []domain.Reply {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.history[sessionID])
}

// Last returns the most recent reply of the session.
func (g *Gateway) Last(sessionID string) (domain.Reply, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h := g.history[sessionID]
	if len(h) == 0 {
		return domain.Reply{}, false
	}
	return h[len(h)-1], true
}

// TypingCount reports how many typing indicators the session received.
func (g *Gateway) TypingCount(sessionID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.typing[sessionID]
}

// Reset forgets the session's history.
func (g *Gateway) Reset(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.history, sessionID)
	delete(g.typing, sessionID)
}
