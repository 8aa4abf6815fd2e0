package menu_test

import (
	"context"
	"testing"

	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/layout"
	"github.com/anaradzetski/keyboard/pkg/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Labels(t *testing.T) {
	tests := []struct {
		name string
		cfg  *menu.Config
		want []string
	}{
		{"Empty", menu.New(), nil},
		{"Declaration Order", menu.New().Text("b", "1").Text("a", "2"), []string{"b", "a"}},
		{"Shape Excluded", menu.New().Width(2).Text("a", "1").Shape(layout.Rows(1)), []string{"a"}},
		{"Mixed Kinds", menu.New().Sub("s", menu.New()).Text("t", "x").Set("raw", 1), []string{"s", "t", "raw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Labels())
		})
	}
}

func TestConfig_Builders(t *testing.T) {
	sub := menu.New().Text("x", "1")
	called := false
	cfg := menu.New().
		Sub("s", sub).
		Text("t", "body").
		Action("a", func(ctx context.Context, ev domain.Event) error {
			called = true
			return nil
		}).
		Width(3)

	require.Len(t, cfg.Entries, 4)
	assert.Same(t, sub, cfg.Entries[0].Value)
	assert.Equal(t, "body", cfg.Entries[1].Value)

	fn, ok := cfg.Entries[2].Value.(domain.ActionFunc)
	require.True(t, ok, "actions are stored as domain.ActionFunc")
	require.NoError(t, fn(context.Background(), domain.Event{}))
	assert.True(t, called)

	assert.Equal(t, menu.ShapeKey, cfg.Entries[3].Label)
	assert.Equal(t, layout.Fixed(3), cfg.Entries[3].Value)
}
