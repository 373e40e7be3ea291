package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Tendril ASCII banner and version to w.
// Colors degrade to the profile detected on stdout.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _____              _      _ _", "#34d399"},
		{"|_   _|__ _ __   __| |_ __(_) |", "#10b981"},
		{"  | |/ _ \\ '_ \\ / _` | '__| | |", "#059669"},
		{"  | |  __/ | | | (_| | |  | | |", "#047857"},
		{"  |_|\\___|_| |_|\\__,_|_|  |_|_|", "#065f46"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
