package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/anaradzetski/keyboard"
	"github.com/anaradzetski/keyboard/internal/presentation/tui"
	"github.com/anaradzetski/keyboard/pkg/adapters/console"
	"github.com/anaradzetski/keyboard/pkg/domain"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [menu.yaml]",
	Short: "Navigate a menu in the terminal",
	Long: `Starts a session on the menu and reads button presses from standard input.
Type a button label or its number. /start restarts the session, /quit ends it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, args)
		if err != nil {
			return err
		}
		defer a.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		interactive := term.IsTerminal(int(os.Stdin.Fd()))

		var gwOpts []console.Option
		if !interactive {
			gwOpts = append(gwOpts, console.WithProfile(termenv.Ascii))
		}
		gw := console.New(cmd.OutOrStdout(), gwOpts...)

		kb, err := a.open(cmd.Context(), gw)
		if err != nil {
			return err
		}
		if interactive {
			tui.PrintBanner(cmd.OutOrStdout(), kb.Name)
		}
		return runConsole(cmd.Context(), kb, gw, cmd.InOrStdin(), cmd.OutOrStdout(), sessionID, interactive)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("session", "console", "Session ID to navigate as")
}

// runConsole drives one session from line-based input until /quit or EOF.
func runConsole(ctx context.Context, kb *keyboard.Engine, gw *console.Gateway, in io.Reader, out io.Writer, sessionID string, prompt bool) error {
	if _, err := kb.Start(ctx, sessionID); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		var err error
		switch line := strings.TrimSpace(scanner.Text()); line {
		case "":
			continue
		case "/quit", "/exit":
			return kb.End(ctx, sessionID)
		case "/start":
			_, err = kb.Start(ctx, sessionID)
		default:
			_, err = kb.OnEvent(ctx, sessionID, gw.Resolve(sessionID, line))
		}

		switch {
		case err == nil:
		case domain.IsRouterError(err), errors.Is(err, domain.ErrPayload):
			fmt.Fprintf(out, "! %v\n", err)
		default:
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return kb.End(ctx, sessionID)
}
