package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anaradzetski/keyboard"
	"github.com/anaradzetski/keyboard/internal/dto"
	"github.com/anaradzetski/keyboard/pkg/adapters/capture"
	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/menu"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := menu.New().
		Sub("Fruits", menu.New().Text("Apples", "crunchy").Text("Pears", "soft")).
		Text("About", "a shop")
	kb, err := keyboard.New(cfg, keyboard.WithName("Shop"), keyboard.WithGateway(capture.New(capture.WithoutHistory())))
	require.NoError(t, err)

	handler, err := NewHandler(kb)
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, body string) (int, dto.Transition) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out dto.Transition
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestServer_Navigation(t *testing.T) {
	srv := newServer(t)
	base := srv.URL + "/sessions/chat-1"

	status, out := call(t, http.MethodPost, base+"/start", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out.Replies, 2)
	assert.Equal(t, domain.ReplyNotice, out.Replies[0].Kind)
	assert.Equal(t, "root", out.Replies[1].Text)
	assert.Equal(t, []string{"Fruits", "About"}, out.Replies[1].Keyboard.Labels())
	assert.Equal(t, "start", out.Op)

	status, out = call(t, http.MethodPost, base+"/events", `{"label":"Fruits"}`)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out.Replies, 1)
	assert.Equal(t, "root::Fruits", out.Replies[0].Text)
	assert.Equal(t, "root", out.From)
	assert.Equal(t, "root::Fruits", out.To)
	assert.Equal(t, "submenu", out.NodeKind)

	status, out = call(t, http.MethodPost, base+"/events", `{"label":"Pears"}`)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out.Replies, 1)
	assert.Equal(t, "soft", out.Replies[0].Text)
	assert.Equal(t, "root::Fruits", out.To, "text leaves keep the position")

	resp, err := http.Get(base)
	require.NoError(t, err)
	var pos position
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pos))
	resp.Body.Close()
	assert.Equal(t, "root::Fruits", pos.Address)

	status, out = call(t, http.MethodPost, base+"/back", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "root", out.To)

	status, out = call(t, http.MethodDelete, base, "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out.Replies, 1)
	assert.Equal(t, "Finishing Shop...", out.Replies[0].Text)
	assert.Equal(t, "end", out.Op)
}

func TestServer_Rejections(t *testing.T) {
	srv := newServer(t)
	base := srv.URL + "/sessions/chat-2"

	status, out := call(t, http.MethodPost, base+"/events", `{"label":"Fruits"}`)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, out.Error)
	assert.Equal(t, "not_started", out.Error.Kind)
	assert.Empty(t, out.Replies)

	status, _ = call(t, http.MethodPost, base+"/start", "")
	require.Equal(t, http.StatusOK, status)

	status, out = call(t, http.MethodPost, base+"/back", "")
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, out.Error)
	assert.Equal(t, "already_at_root", out.Error.Kind)

	status, out = call(t, http.MethodPost, base+"/events", `{"label":"Fruit"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, out.Error)
	assert.Equal(t, "unknown_selection", out.Error.Kind)
	assert.Equal(t, "Fruits", out.Error.Suggestion)
	assert.Equal(t, "Fruit", out.Error.Label)
}

func TestServer_RequestValidation(t *testing.T) {
	srv := newServer(t)
	base := srv.URL + "/sessions/chat-3"

	tests := []struct {
		name string
		body string
	}{
		{"empty label", `{"label":""}`},
		{"missing label", `{}`},
		{"unknown field", `{"label":"A","extra":1}`},
		{"wrong type", `{"label":42}`},
		{"malformed", `{"label":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := call(t, http.MethodPost, base+"/events", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, out.Error)
			assert.Equal(t, "invalid_request", out.Error.Kind)
		})
	}

	t.Run("missing body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, base+"/events", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_SanitizesLabels(t *testing.T) {
	srv := newServer(t)
	base := srv.URL + "/sessions/chat-4"

	status, _ := call(t, http.MethodPost, base+"/start", "")
	require.Equal(t, http.StatusOK, status)

	status, out := call(t, http.MethodPost, base+"/events", `{"label":"Fru\u0000its\n"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "root::Fruits", out.To)
}

func TestServer_Tree(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/tree")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tree dto.Tree
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tree))
	assert.Equal(t, "root", tree.Namespace)
	assert.Equal(t, "back", tree.BackLabel)
	keys := make([]string, 0, len(tree.Nodes))
	for _, n := range tree.Nodes {
		keys = append(keys, n.Key)
	}
	assert.ElementsMatch(t, []string{"root", "root::About", "root::Fruits", "root::Fruits::Apples", "root::Fruits::Pears"}, keys)
}

func TestServer_Misc(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/yaml", resp.Header.Get("Content-Type"))

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/sessions/x/start", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, out := call(t, http.MethodPost, srv.URL+"/sessions/a/start", "")
	require.Nil(t, out.Error)
	resp, err = http.Get(srv.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	var ids []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ids))
	assert.Equal(t, []string{"a"}, ids)
}
