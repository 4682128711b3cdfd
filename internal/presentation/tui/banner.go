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
	{`  __ _      _                       `, "#34d399"},
	{` / _(_)_ __| |_ _  _ _ _ ___ ___   `, "#2dd4bf"},
	{`|  _| \ \ /|  _| || | '_/ -_|_-<   `, "#22d3ee"},
	{`|_| |_/_\_\ \__|\_,_|_| \___/__/   `, "#38bdf8"},
}

// PrintBanner writes the fixtures banner followed by the version.
func PrintBanner(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, p.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w, p.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
