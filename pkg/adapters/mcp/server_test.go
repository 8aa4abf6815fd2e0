package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anaradzetski/keyboard"
	"github.com/anaradzetski/keyboard/internal/dto"
	"github.com/anaradzetski/keyboard/pkg/adapters/capture"
	"github.com/anaradzetski/keyboard/pkg/menu"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	cfg := menu.New().Sub("Fruits", menu.New().Text("Apples", "crunchy"))
	kb, err := keyboard.New(cfg, keyboard.WithStartNotice(""), keyboard.WithGateway(capture.New(capture.WithoutHistory())))
	require.NoError(t, err)
	return NewServer(kb, "test", nil)
}

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func outcome(t *testing.T, r *mcp.CallToolResult) dto.Transition {
	t.Helper()
	out, ok := r.StructuredContent.(dto.Transition)
	require.True(t, ok, "structured content should be a transition")
	return out
}

func TestServer_Navigation(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleStart(ctx, makeReq(map[string]interface{}{"session_id": "agent"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	out := outcome(t, res)
	require.Len(t, out.Replies, 1)
	assert.Equal(t, []string{"Fruits"}, out.Replies[0].Keyboard.Labels())
	assert.Equal(t, "menu: root [Fruits]", resultText(res))

	res, err = s.handleSelect(ctx, makeReq(map[string]interface{}{"session_id": "agent", "label": "Fruits"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "root::Fruits", outcome(t, res).To)

	res, err = s.handleSelect(ctx, makeReq(map[string]interface{}{"session_id": "agent", "label": "Apples"}))
	require.NoError(t, err)
	assert.Equal(t, "text: crunchy", resultText(res))

	res, err = s.handleSelect(ctx, makeReq(map[string]interface{}{"session_id": "agent", "label": "back"}))
	require.NoError(t, err)
	assert.Equal(t, "root", outcome(t, res).To)

	res, err = s.handleList(ctx, makeReq(nil))
	require.NoError(t, err)
	assert.Equal(t, "agent", resultText(res))

	res, err = s.handleEnd(ctx, makeReq(map[string]interface{}{"session_id": "agent"}))
	require.NoError(t, err)
	out = outcome(t, res)
	assert.Equal(t, "end", out.Op)
	require.Len(t, out.Replies, 1)
	assert.Equal(t, "Finishing Keyboard...", out.Replies[0].Text)
}

func TestServer_Rejections(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleBack(ctx, makeReq(map[string]interface{}{"session_id": "agent"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	require.NotNil(t, outcome(t, res).Error)
	assert.Equal(t, "not_started", outcome(t, res).Error.Kind)

	_, err = s.handleStart(ctx, makeReq(map[string]interface{}{"session_id": "agent"}))
	require.NoError(t, err)

	res, err = s.handleSelect(ctx, makeReq(map[string]interface{}{"session_id": "agent", "label": "Fruts"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	out := outcome(t, res)
	assert.Equal(t, "unknown_selection", out.Error.Kind)
	assert.Equal(t, "Fruits", out.Error.Suggestion)
	assert.Empty(t, out.Replies)

	res, err = s.handleSelect(ctx, makeReq(map[string]interface{}{"session_id": "agent"}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "missing label")

	res, err = s.handleStart(ctx, makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "missing session")
}

func TestServer_Tree(t *testing.T) {
	s := newServer(t)

	data, err := s.treeJSON()
	require.NoError(t, err)
	var tree dto.Tree
	require.NoError(t, json.Unmarshal(data, &tree))
	assert.Equal(t, "root", tree.Namespace)
	assert.Len(t, tree.Nodes, 3)
}
