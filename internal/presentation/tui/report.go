package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/aretw0/fixtures/pkg/schema"
	"github.com/muesli/termenv"
)

const (
	colorError   = "#f87171"
	colorWarning = "#fbbf24"
	colorInfo    = "#60a5fa"
	colorValid   = "#34d399"
)

// WriteResult prints a validation result headed by title.
// Messages keep the ERROR:/WARNING:/INFO: prefixes so plain output stays greppable.
func WriteResult(w io.Writer, p termenv.Profile, title string, res *schema.Result) {
	if res.Valid {
		fmt.Fprintf(w, "%s %s\n", p.String("✔ valid").Foreground(p.Color(colorValid)).Bold(), title)
	} else {
		status := fmt.Sprintf("✘ invalid (%d errors, %d warnings)", len(res.Errors), len(res.Warnings))
		fmt.Fprintf(w, "%s %s\n", p.String(status).Foreground(p.Color(colorError)).Bold(), title)
	}

	writeLevel(w, p, schema.LevelError, colorError, res.Errors)
	writeLevel(w, p, schema.LevelWarning, colorWarning, res.Warnings)
	writeLevel(w, p, schema.LevelInfo, colorInfo, res.Info)
}

func writeLevel(w io.Writer, p termenv.Profile, level schema.Level, color string, msgs []string) {
	label := p.String(level.String() + ":").Foreground(p.Color(color))
	for _, msg := range msgs {
		fmt.Fprintf(w, "  %s %s\n", label, msg)
	}
}

// InfoMarkdown describes a data directory as a markdown document.
func InfoMarkdown(info domain.Info, env, version string) string {
	var b strings.Builder
	b.WriteString("# Fixtures\n\n")
	b.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Version | %s |\n", version)
	fmt.Fprintf(&b, "| Environment | %s |\n", env)
	fmt.Fprintf(&b, "| Data directory | `%s` |\n", info.Dir)
	fmt.Fprintf(&b, "| Supported formats | %s |\n", strings.Join(info.Formats, ", "))
	fmt.Fprintf(&b, "| Cached files | %d |\n", info.Cached)

	b.WriteString("\n## Available files\n\n")
	if len(info.Files) == 0 {
		b.WriteString("_none_\n")
	}
	for _, f := range info.Files {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return b.String()
}
