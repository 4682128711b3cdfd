package tui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Interactive reports whether f is a terminal worth decorating.
// CI and NO_COLOR environments are treated as plain output.
func Interactive(f *os.File) bool {
	if !term.IsTerminal(int(f.Fd())) {
		return false
	}
	ci := os.Getenv("CI")
	if ci == "true" || ci == "1" {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

// Profile returns the colour profile to use for f.
func Profile(f *os.File) termenv.Profile {
	if !Interactive(f) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}
