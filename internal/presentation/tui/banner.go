package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"      _       _         __ _",
	"   __| | __ _| |_ __ _ / _| | _____      __",
	"  / _` |/ _` | __/ _` | |_| |/ _ \\ \\ /\\ / /",
	" | (_| | (_| | || (_| |  _| | (_) \\ V  V /",
	"  \\__,_|\\__,_|\\__\\__,_|_| |_|\\___/ \\_/\\_/",
}

var bannerColors = []string{"#38bdf8", "#22d3ee", "#2dd4bf", "#34d399", "#4ade80"}

// PrintBanner writes the ASCII banner followed by the version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
