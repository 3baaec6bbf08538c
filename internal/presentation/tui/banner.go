package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the midiroute banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"           _     _ _                 _       ", "#34d399"},
		{"  _ __ ___ (_) __| (_)_ __ ___  _   _| |_ ___ ", "#2dd4bf"},
		{" | '_ ` _ \\| |/ _` | | '__/ _ \\| | | | __/ _ \\", "#22d3ee"},
		{" | | | | | | | (_| | | | | (_) | |_| | ||  __/", "#38bdf8"},
		{" |_| |_| |_|_|\\__,_|_|_|  \\___/ \\__,_|\\__\\___|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
