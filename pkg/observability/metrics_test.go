package observability_test

import (
	"context"
	"strings"
	"testing"

	"github.com/anaradzetski/keyboard"
	"github.com/anaradzetski/keyboard/pkg/menu"
	"github.com/anaradzetski/keyboard/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg, "test")
	require.NoError(t, err)

	kb, err := keyboard.New(menu.New().Sub("A", menu.New().Text("B", "hi")),
		keyboard.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = kb.Start(ctx, "s")
	_, _ = kb.Start(ctx, "s")
	_, _ = kb.OnEvent(ctx, "s", "A")
	_, _ = kb.OnEvent(ctx, "s", "B")
	_, _ = kb.OnEvent(ctx, "s", "nope")
	_, _ = kb.OnEvent(ctx, "ghost", "A")
	_ = kb.End(ctx, "s")

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "keyboard_transitions_total")
	assert.Contains(t, names, "keyboard_transition_duration_seconds")

	n, err := testutil.GatherAndCount(reg, "keyboard_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "start/submenu, select/submenu and select/text series")

	expected := `
# HELP keyboard_router_errors_total Rejected navigation events.
# TYPE keyboard_router_errors_total counter
keyboard_router_errors_total{keyboard="test",op="select",reason="not_started"} 1
keyboard_router_errors_total{keyboard="test",op="select",reason="unknown_selection"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "keyboard_router_errors_total"))

	expectedSessions := `
# HELP keyboard_sessions_active Sessions started and not yet ended by this process.
# TYPE keyboard_sessions_active gauge
keyboard_sessions_active{keyboard="test"} 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expectedSessions), "keyboard_sessions_active"))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg, "a")
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg, "a")
	assert.Error(t, err)
}
