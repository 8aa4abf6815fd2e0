package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keyboard",
	Short: "Keyboard is a menu navigation engine for chat bots",
	Long: `Keyboard compiles a nested menu described in YAML into button keyboards and
tracks where every chat session is in it.

Settings come from flags, KEYBOARD_* environment variables and an optional
config file, in that order of precedence.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (yaml, json or toml)")
	flags.StringP("menu", "m", "", "Menu document (or pass it as the first argument)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("redis-url", "", "Keep sessions in Redis (e.g. redis://localhost:6379/0)")
	flags.String("redis-prefix", "keyboard:", "Key prefix of sessions and locks in Redis")
	flags.Duration("redis-ttl", 0, "Expire idle sessions after this long (0 keeps them)")
	flags.Bool("redis-lock", true, "Serialise events of a session across replicas with a Redis lock")
}
