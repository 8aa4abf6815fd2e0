package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anaradzetski/keyboard"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of keyboard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "keyboard version %s\n", strings.TrimSpace(keyboard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
