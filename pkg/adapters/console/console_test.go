package console

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anaradzetski/keyboard"
	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/menu"
	"github.com/anaradzetski/keyboard/pkg/ports"
)

var (
	_ ports.Gateway        = (*Gateway)(nil)
	_ ports.TypingNotifier = (*Gateway)(nil)
)

func TestGateway_Session(t *testing.T) {
	var buf bytes.Buffer
	gw := New(&buf, WithProfile(termenv.Ascii), WithMarkdownRenderer(func(s string) (string, error) {
		return "md:" + s, nil
	}))

	cfg := menu.New().
		Sub("Fruits", menu.New().Text("Apples", "crunchy")).
		Text("About", "*shop*").
		Width(2)
	kb, err := keyboard.New(cfg, keyboard.WithGateway(gw), keyboard.WithParseMode(domain.ParseMarkdown))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = kb.Start(ctx, "tty")
	require.NoError(t, err)
	assert.Equal(t, "Starting...\nroot\n  [1 Fruits] [2 About]\n", buf.String())

	buf.Reset()
	_, err = kb.OnEvent(ctx, "tty", gw.Resolve("tty", "2"))
	require.NoError(t, err)
	assert.Equal(t, "md:*shop*\n", buf.String())

	buf.Reset()
	_, err = kb.OnEvent(ctx, "tty", gw.Resolve("tty", " 1 "))
	require.NoError(t, err)
	assert.Equal(t, "root::Fruits\n  [1 Apples]\n  [2 back]\n", buf.String())

	require.NoError(t, kb.End(ctx, "tty"))
	assert.Equal(t, "9", gw.Resolve("tty", "9"), "keyboard is dropped with the finish notice")
}

func TestGateway_Resolve(t *testing.T) {
	gw := New(&bytes.Buffer{}, WithProfile(termenv.Ascii))
	require.NoError(t, gw.Render(context.Background(), "s", domain.Reply{
		Kind: domain.ReplyMenu,
		Text: "root",
		Keyboard: &domain.Keyboard{Rows: [][]domain.Button{
			{{Text: "A"}, {Text: "B"}},
			{{Text: "C"}},
		}},
	}))

	assert.Equal(t, "C", gw.Resolve("s", "3"))
	assert.Equal(t, "0", gw.Resolve("s", "0"))
	assert.Equal(t, "A", gw.Resolve("s", "A"))
	assert.Equal(t, "1", gw.Resolve("other", "1"))
}

func TestGateway_Typing(t *testing.T) {
	var buf bytes.Buffer
	quiet := New(&buf, WithProfile(termenv.Ascii))
	require.NoError(t, quiet.Typing(context.Background(), "s"))
	assert.Empty(t, buf.String())

	loud := New(&buf, WithProfile(termenv.Ascii), WithTypingIndicator())
	require.NoError(t, loud.Typing(context.Background(), "s"))
	assert.Equal(t, "typing...\n", buf.String())
}

func TestGateway_MarkdownError(t *testing.T) {
	boom := errors.New("boom")
	gw := New(&bytes.Buffer{}, WithProfile(termenv.Ascii), WithMarkdownRenderer(func(string) (string, error) {
		return "", boom
	}))

	err := gw.Render(context.Background(), "s", domain.Reply{Kind: domain.ReplyText, Text: "x", ParseMode: domain.ParseMarkdown})
	assert.ErrorIs(t, err, boom)
}
