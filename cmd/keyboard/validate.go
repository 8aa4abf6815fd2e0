package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anaradzetski/keyboard/internal/dto"
	"github.com/anaradzetski/keyboard/pkg/ports"
)

var validateCmd = &cobra.Command{
	Use:   "validate [menu.yaml]",
	Short: "Check the menu for configuration errors",
	Long:  `Compiles the menu and reports the first duplicate label, bad shape or unresolved action.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, args)
		if err != nil {
			return err
		}
		defer a.Close()

		// Validation never touches the configured session store.
		a.cfg.Redis.URL = ""
		kb, err := a.open(cmd.Context(), ports.GatewayFunc(discard))
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.FromTree(kb.Tree()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Menu is valid! ✅ (%d nodes)\n", kb.Tree().Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print the compiled tree as JSON")
}
