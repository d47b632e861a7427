// Package help renders the key binding reference overlay.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/totp-live/tui/internal/theme"
)

// Markdown builds the help document for the given bindings.
func Markdown(bindings []key.Binding) string {
	var b strings.Builder
	b.WriteString("# totp-live\n\n")
	b.WriteString("Edit the secret, digits or period and the stream restarts immediately. ")
	b.WriteString("An invalid field shows `------` until it is fixed.\n\n")
	b.WriteString("| Key | Action |\n|-----|--------|\n")
	for _, k := range bindings {
		h := k.Help()
		if h.Key == "" {
			continue
		}
		b.WriteString("| `" + h.Key + "` | " + h.Desc + " |\n")
	}
	return b.String()
}

// View renders the help overlay. It falls back to the raw markdown when the
// renderer cannot be built.
func View(bindings []key.Binding, width int) string {
	innerW := max(width-8, 30)
	md := Markdown(bindings)

	out := md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(innerW),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = strings.TrimRight(rendered, "\n")
		}
	}

	return lipgloss.NewStyle().
		Width(innerW).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(out + "\n" + theme.StyleDimmed.Render("esc:close"))
}
