// Package mcp exposes a keyboard engine to LLM agents over the Model Context
// Protocol. Every tool call answers with the replies the event produced.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/anaradzetski/keyboard/internal/dto"
	"github.com/anaradzetski/keyboard/internal/logging"
	"github.com/anaradzetski/keyboard/internal/sanitize"
	"github.com/anaradzetski/keyboard/pkg/adapters/capture"
	"github.com/anaradzetski/keyboard/pkg/domain"
)

// TreeURI is the resource carrying the compiled menu.
const TreeURI = "keyboard://tree"

// Engine is the part of keyboard.Engine the server drives. Its gateway must
// honour capture collectors for replies to reach tool results.
type Engine interface {
	Tree() *domain.Tree
	Start(ctx context.Context, sessionID string) (*domain.Transition, error)
	OnEvent(ctx context.Context, sessionID, raw string) (*domain.Transition, error)
	Back(ctx context.Context, sessionID string) (*domain.Transition, error)
	End(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
}

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("keyboard-mcp", strings.TrimSpace(version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	sessionArg := mcp.WithString("session_id", mcp.Required(), mcp.Description("Chat session identifier"))

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start (or restart) a session at the root menu."),
		sessionArg,
		mcp.WithOutputSchema[dto.Transition](),
	), s.handleStart)

	s.mcpServer.AddTool(mcp.NewTool("select",
		mcp.WithDescription("Press a button of the current menu. The back label walks one level up."),
		sessionArg,
		mcp.WithString("label", mcp.Required(), mcp.Description("Button text or inline callback data")),
		mcp.WithOutputSchema[dto.Transition](),
	), s.handleSelect)

	s.mcpServer.AddTool(mcp.NewTool("back",
		mcp.WithDescription("Return to the parent menu."),
		sessionArg,
		mcp.WithOutputSchema[dto.Transition](),
	), s.handleBack)

	s.mcpServer.AddTool(mcp.NewTool("end_session",
		mcp.WithDescription("Finish a session and forget its position."),
		sessionArg,
		mcp.WithOutputSchema[dto.Transition](),
	), s.handleEnd)

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List live sessions."),
	), s.handleList)

	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the compiled menu for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := s.treeJSON()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.respond(ctx, id, func(ctx context.Context) (*domain.Transition, error) {
		return s.engine.Start(ctx, id)
	}), nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := request.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	label, err := sanitize.Label(raw, sanitize.DefaultMaxLabelSize)
	if err != nil {
		s.logger.Warn("MCP select: label rejected", "err", err, "size", len(raw))
		return mcp.NewToolResultError(fmt.Sprintf("label rejected: %v", err)), nil
	}
	return s.respond(ctx, id, func(ctx context.Context) (*domain.Transition, error) {
		return s.engine.OnEvent(ctx, id, label)
	}), nil
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.respond(ctx, id, func(ctx context.Context) (*domain.Transition, error) {
		return s.engine.Back(ctx, id)
	}), nil
}

func (s *Server) handleEnd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.respond(ctx, id, func(ctx context.Context) (*domain.Transition, error) {
		if err := s.engine.End(ctx, id); err != nil {
			return nil, err
		}
		return &domain.Transition{SessionID: id, Kind: domain.TransitionEnd}, nil
	}), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.engine.Sessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.Join(ids, "\n")), nil
}

// respond runs one engine call with a reply collector. Rejections are tool
// errors that still carry the structured outcome.
func (s *Server) respond(ctx context.Context, id string, call func(context.Context) (*domain.Transition, error)) *mcp.CallToolResult {
	ctx, collected := capture.NewContext(ctx)
	tr, err := call(ctx)

	out := dto.FromTransition(s.engine.Tree(), id, tr, collected.Replies())
	out.Error = dto.FromError(err)

	res := mcp.NewToolResultStructured(out, summary(out))
	if err != nil {
		if !domain.IsRouterError(err) {
			s.logger.Error("MCP tool call failed", "session_id", id, "err", err)
		}
		res.IsError = true
	}
	return res
}

// summary is the plain-text fallback for clients without structured content.
func summary(out dto.Transition) string {
	var b strings.Builder
	if out.Error != nil {
		fmt.Fprintf(&b, "error (%s): %s\n", out.Error.Kind, out.Error.Message)
	}
	for _, r := range out.Replies {
		fmt.Fprintf(&b, "%s: %s", r.Kind, r.Text)
		if labels := r.Keyboard.Labels(); len(labels) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(labels, " | "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Server) treeJSON() ([]byte, error) {
	data, err := json.Marshal(dto.FromTree(s.engine.Tree()))
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	return data, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TreeURI, "Compiled menu",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.treeJSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TreeURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
