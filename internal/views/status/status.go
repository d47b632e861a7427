package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/totp-live/tui/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	State     string
	Transport string
	Endpoint  string
	Attempts  int
	Width     int
}

// New creates a status bar model for the given transport and endpoint.
func New(transport, endpoint string) Model {
	return Model{State: "idle", Transport: transport, Endpoint: endpoint}
}

// SetState records a session state change. Each move into connecting is a
// new connection attempt.
func (m *Model) SetState(state string) {
	if state == "connecting" {
		m.Attempts++
	}
	m.State = state
}

func stateLabel(state string) string {
	switch state {
	case "connecting":
		return "Connecting..."
	case "active":
		return "Live"
	case "retry_pending":
		return "Reconnecting..."
	case "terminal":
		return "Rejected"
	default:
		return "Idle"
	}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	connStr := lipgloss.NewStyle().Foreground(theme.StateColor(m.State)).
		Render(theme.StateGlyph(m.State) + " " + stateLabel(m.State))

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr + sep + m.Transport + " " + theme.StyleDimmed.Render(m.Endpoint)
	if m.Attempts > 1 {
		content += sep + fmt.Sprintf("%d attempts", m.Attempts)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
