// Package tui holds terminal presentation helpers for the CLI.
package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` _  __          _                         _ `, "#818cf8"},
	{`| |/ /___ _  _ | |__  ___  __ _  _ _  __| |`, "#a78bfa"},
	{`| ' </ -_) || || '_ \/ _ \/ _' || '_|/ _' |`, "#c084fc"},
	{`|_|\_\___|\_, ||_.__/\___/\__,_||_|  \__,_|`, "#e879f9"},
	{`          |__/                              `, "#f472b6"},
}

// PrintBanner writes the ASCII banner followed by the menu name.
func PrintBanner(w io.Writer, name string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(out)
	for _, l := range bannerLines {
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if name != "" {
		fmt.Fprintln(out, out.String("  "+name).Bold().Foreground(out.Color("#fb7185")))
	}
	fmt.Fprintln(out)
}
