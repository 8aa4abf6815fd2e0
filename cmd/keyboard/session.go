package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anaradzetski/keyboard/pkg/domain"
	"github.com/anaradzetski/keyboard/pkg/ports"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage live sessions",
	Long:  `List, inspect, and end sessions kept in the configured store (use --redis-url).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls [menu.yaml]",
	Short: "List all live sessions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, args)
		if err != nil {
			return err
		}
		defer a.Close()

		kb, err := a.open(cmd.Context(), ports.GatewayFunc(discard))
		if err != nil {
			return err
		}
		ids, err := kb.Sessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No live sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Live Sessions:")
		for _, id := range ids {
			addr, err := kb.Position(cmd.Context(), id)
			if err != nil {
				continue
			}
			fmt.Fprintf(out, "- %s\t%s\n", id, kb.Tree().Key(addr))
		}
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "End one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		kb, err := a.open(cmd.Context(), ports.GatewayFunc(discard))
		if err != nil {
			return err
		}
		for _, id := range args {
			if err := kb.End(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to end %q: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ended session '%s'\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

// discard drops replies of commands that only manage state.
func discard(context.Context, string, domain.Reply) error {
	return nil
}
