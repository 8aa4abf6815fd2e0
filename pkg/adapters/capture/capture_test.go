package capture_test

import (
	"context"
	"testing"

	"github.com/anaradzetski/keyboard/pkg/adapters/capture"
	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGateway_History(t *testing.T) {
	g := capture.New()
	ctx := context.Background()

	_ = g.Typing(ctx, "s")
	_ = g.Render(ctx, "s", domain.Reply{Kind: domain.ReplyText, Text: "one"})
	_ = g.Render(ctx, "s", domain.Reply{Kind: domain.ReplyText, Text: "two"})
	_ = g.Render(ctx, "other", domain.Reply{Kind: domain.ReplyText, Text: "x"})

	assert.Len(t, g.History("s"), 2)
	last, ok := g.Last("s")
	assert.True(t, ok)
	assert.Equal(t, "two", last.Text)
	assert.Equal(t, 1, g.TypingCount("s"))

	g.Reset("s")
	_, ok = g.Last("s")
	assert.False(t, ok)
	assert.Len(t, g.History("other"), 1)
}

func TestGateway_ContextCollector(t *testing.T) {
	g := capture.New(capture.WithoutHistory())

	ctx, col := capture.NewContext(context.Background())
	_ = g.Render(ctx, "s", domain.Reply{Text: "scoped"})
	_ = g.Render(context.Background(), "s", domain.Reply{Text: "unscoped"})

	assert.Equal(t, []domain.Reply{{Text: "scoped"}}, col.Replies())
	assert.Empty(t, g.History("s"))

	_, ok := capture.FromContext(context.Background())
	assert.False(t, ok)
}
