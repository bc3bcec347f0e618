package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the sortviz banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 _        _     ", "#818cf8"},
		{"  ___  ___  _ __| |___   _(_)____", "#a78bfa"},
		{" / __|/ _ \\| '__| __\\ \\ / / |_  /", "#c084fc"},
		{" \\__ \\ (_) | |  | |_ \\ V /| |/ / ", "#e879f9"},
		{" |___/\\___/|_|   \\__| \\_/ |_/___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, p.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
