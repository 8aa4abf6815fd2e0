package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anaradzetski/keyboard/internal/presentation/graph"
	"github.com/anaradzetski/keyboard/pkg/adapters/capture"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [menu.yaml]",
	Short: "Export the menu as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the compiled menu. With --sessions,
nodes occupied by live sessions in the configured store are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, args)
		if err != nil {
			return err
		}
		defer a.Close()

		kb, err := a.open(cmd.Context(), capture.New(capture.WithoutHistory()))
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if withSessions, _ := cmd.Flags().GetBool("sessions"); withSessions {
			overlay = &graph.GraphOverlay{}
			ids, err := kb.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			current, _ := cmd.Flags().GetString("current")
			for _, id := range ids {
				addr, err := kb.Position(cmd.Context(), id)
				if err != nil {
					// Ended or expired while listing.
					continue
				}
				key := kb.Tree().Key(addr)
				overlay.Occupied = append(overlay.Occupied, key)
				if id == current {
					overlay.Current = key
				}
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(kb.Tree(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("sessions", false, "Highlight nodes occupied by live sessions")
	graphCmd.Flags().String("current", "", "Session to highlight as current (with --sessions)")
}
