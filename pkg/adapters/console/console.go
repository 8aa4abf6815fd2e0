// Package console renders replies to a terminal. It backs the interactive
// "keyboard run" command and is handy when developing a menu locally.
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/anaradzetski/keyboard/internal/presentation/tui"
	"github.com/anaradzetski/keyboard/pkg/domain"
)

// Gateway implements ports.Gateway and ports.TypingNotifier on an io.Writer.
type Gateway struct {
	mu       sync.Mutex
	out      *termenv.Output
	markdown func(string) (string, error)
	typing   bool

	// last keyboard shown per session, for numeric shortcuts
	last map[string][]string
}

// Option configures the Gateway.
type Option func(*gatewayConfig)

type gatewayConfig struct {
	profile  *termenv.Profile
	markdown func(string) (string, error)
	typing   bool
}

// WithProfile forces a colour profile. termenv.Ascii disables styling.
func WithProfile(p termenv.Profile) Option {
	return func(c *gatewayConfig) {
		c.profile = &p
	}
}

// WithMarkdownRenderer replaces the glamour renderer used for Markdown texts.
func WithMarkdownRenderer(fn func(string) (string, error)) Option {
	return func(c *gatewayConfig) {
		c.markdown = fn
	}
}

// WithTypingIndicator prints a line whenever the engine signals typing.
func WithTypingIndicator() Option {
	return func(c *gatewayConfig) {
		c.typing = true
	}
}

// New creates a console gateway writing to w.
func New(w io.Writer, opts ...Option) *Gateway {
	cfg := gatewayConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var outOpts []termenv.OutputOption
	if cfg.profile != nil {
		outOpts = append(outOpts, termenv.WithProfile(*cfg.profile))
	}
	if cfg.markdown == nil {
		cfg.markdown = tui.NewRenderer(80)
	}

	return &Gateway{
		out:      termenv.NewOutput(w, outOpts...),
		markdown: cfg.markdown,
		typing:   cfg.typing,
		last:     make(map[string][]string),
	}
}

func (g *Gateway) Render(ctx context.Context, sessionID string, reply domain.Reply) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch reply.Kind {
	case domain.ReplyNotice:
		if reply.RemoveKeyboard {
			delete(g.last, sessionID)
		}
		_, err := fmt.Fprintln(g.out, g.out.String(reply.Text).Faint().Italic())
		return err
	case domain.ReplyMenu:
		return g.menu(sessionID, reply)
	default:
		return g.text(reply)
	}
}

func (g *Gateway) text(reply domain.Reply) error {
	body := reply.Text
	if reply.ParseMode == domain.ParseMarkdown {
		rendered, err := g.markdown(body)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		body = rendered
	}
	_, err := fmt.Fprintln(g.out, body)
	return err
}

func (g *Gateway) menu(sessionID string, reply domain.Reply) error {
	var b strings.Builder
	b.WriteString(g.out.String(reply.Text).Bold().Foreground(g.out.Color("#818cf8")).String())
	b.WriteString("\n")

	var labels []string
	if reply.Keyboard != nil {
		for _, row := range reply.Keyboard.Rows {
			cells := make([]string, 0, len(row))
			for _, btn := range row {
				labels = append(labels, btn.Text)
				num := g.out.String(strconv.Itoa(len(labels))).Faint().String()
				cells = append(cells, fmt.Sprintf("[%s %s]", num, g.out.String(btn.Text).Foreground(g.out.Color("#c084fc"))))
			}
			b.WriteString("  ")
			b.WriteString(strings.Join(cells, " "))
			b.WriteString("\n")
		}
	}
	g.last[sessionID] = labels

	_, err := io.WriteString(g.out, b.String())
	return err
}

func (g *Gateway) Typing(ctx context.Context, sessionID string) error {
	if !g.typing {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, err := fmt.Fprintln(g.out, g.out.String("typing...").Faint())
	return err
}

// Resolve maps a numeric shortcut ("2") to the label of the matching button of
// the last keyboard shown to the session. Other input is returned trimmed.
func (g *Gateway) Resolve(sessionID, input string) string {
	input = strings.TrimSpace(input)
	n, err := strconv.Atoi(input)
	if err != nil {
		return input
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	labels := g.last[sessionID]
	if n < 1 || n > len(labels) {
		return input
	}
	return labels[n-1]
}
