// Package toast shows short-lived notifications such as stream errors and
// copy confirmations.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/totp-live/tui/internal/theme"
)

// Duration is how long a toast stays visible.
const Duration = 2 * time.Second

// Kind selects the toast color.
type Kind int

const (
	KindError Kind = iota
	KindInfo
)

// DismissMsg hides the toast with the matching id. Later toasts replace
// earlier ones, so a stale dismissal is ignored.
type DismissMsg struct{ ID int }

// Model holds the visible toast, if any.
type Model struct {
	Message string
	Kind    Kind
	Width   int

	id int
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool { return m.Message != "" }

// Show displays msg and returns the command that hides it again.
func (m *Model) Show(kind Kind, msg string) tea.Cmd {
	m.id++
	m.Message = msg
	m.Kind = kind
	id := m.id
	return tea.Tick(Duration, func(time.Time) tea.Msg { return DismissMsg{ID: id} })
}

// Dismiss hides the toast immediately.
func (m *Model) Dismiss() {
	m.Message = ""
}

// Update handles dismissal messages.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.ID == m.id {
		m.Dismiss()
	}
	return m
}

// View renders the toast or an empty string.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}
	color, glyph := theme.ColorDanger, "✗ "
	if m.Kind == KindInfo {
		color, glyph = theme.ColorInfo, "✓ "
	}
	style := lipgloss.NewStyle().
		Foreground(color).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color)
	if m.Width > 8 {
		style = style.MaxWidth(m.Width)
	}
	return style.Render(glyph + m.Message)
}
