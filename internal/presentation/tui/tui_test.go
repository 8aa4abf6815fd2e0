package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "Cats")

	assert.Contains(t, buf.String(), "Cats")
	assert.Contains(t, buf.String(), `|_|\_\___|`)
}

func TestRenderer_Markdown(t *testing.T) {
	render := NewRenderer(40)

	out, err := render("# Menu\n\nSome **bold** text")
	require.NoError(t, err)
	assert.Contains(t, out, "Menu")
	assert.Contains(t, out, "bold")
}
