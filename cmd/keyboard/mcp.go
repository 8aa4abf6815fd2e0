package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anaradzetski/keyboard"
	"github.com/anaradzetski/keyboard/pkg/adapters/capture"
	"github.com/anaradzetski/keyboard/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [menu.yaml]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the menu to AI agents as MCP tools (start_session, select, back,
end_session, list_sessions, get_tree) and the keyboard://tree resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, args)
		if err != nil {
			return err
		}
		defer a.Close()

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		kb, err := a.open(cmd.Context(), capture.New(capture.WithoutHistory()))
		if err != nil {
			return err
		}
		srv := mcp.NewServer(kb, keyboard.Version, a.logger)

		switch transport {
		case "stdio":
			// Logs go to stderr, stdout carries JSON-RPC.
			a.logger.Info("Starting Keyboard MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ServeSSE(ctx, port)
		default:
			return fmt.Errorf("unknown transport %q: want stdio or sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8081, "Port of the sse transport")
}
