package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Colour output picks a light or dark theme from the terminal background;
// otherwise the plain notty style is used.
func NewRenderer(color bool) (func(string) (string, error), error) {
	style := glamour.WithStandardStyle("notty")
	if color {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
