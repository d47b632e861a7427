// Package debug provides a scrollable overlay of session transitions and
// stream errors.
package debug

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/totp-live/tui/internal/stream"
	"github.com/totp-live/tui/internal/theme"
)

const maxEntries = 200

// Entry is a single event log line.
type Entry struct {
	Time    time.Time
	Kind    string // "fsm", "err", "code", "copy"
	Message string
}

// Model holds debug log state.
type Model struct {
	Entries []Entry
	Offset  int // scroll offset (from bottom)
	Session string

	now func() time.Time
}

// New creates an empty debug model.
func New() Model {
	return Model{now: time.Now}
}

// Add appends a log entry and caps the buffer.
func (m *Model) Add(kind, message string) {
	m.add(Entry{Time: m.clock(), Kind: kind, Message: message})
}

// AddTransition records a session state change.
func (m *Model) AddTransition(t stream.Transition) {
	msg := fmt.Sprintf("%s -> %s on %s", t.From, t.To, t.Trigger)
	if t.Detail != "" {
		msg += ": " + t.Detail
	}
	if t.SessionID != "" {
		m.Session = t.SessionID
	}
	at := t.At
	if at.IsZero() {
		at = m.clock()
	}
	m.add(Entry{Time: at, Kind: "fsm", Message: msg})
}

func (m *Model) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *Model) add(e Entry) {
	m.Entries = append(m.Entries, e)
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	m.Offset = 0
}

// ScrollUp moves the viewport up.
func (m *Model) ScrollUp(n int) {
	m.Offset = min(m.Offset+n, max(len(m.Entries)-1, 0))
}

// ScrollDown moves the viewport down.
func (m *Model) ScrollDown(n int) {
	m.Offset = max(m.Offset-n, 0)
}

func panelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)
}

// View renders the log as an overlay panel.
func (m Model) View(width, height int) string {
	innerW := max(width-4, 20)
	visible := max(height-7, 3)

	title := theme.StyleHeader.Render(" SESSION LOG ")
	if m.Session != "" {
		title += theme.StyleDimmed.Render(" " + shortID(m.Session))
	}
	help := theme.StyleDimmed.Render(fmt.Sprintf("up/down:scroll  esc:close  %d entries", len(m.Entries)))

	if len(m.Entries) == 0 {
		body := theme.StyleDimmed.Render("  No events recorded yet.")
		return panelStyle(innerW).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help))
	}

	end := max(len(m.Entries)-m.Offset, 0)
	start := max(end-visible, 0)

	lines := make([]string, 0, end-start)
	for _, e := range m.Entries[start:end] {
		ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05.000"))
		kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(5).Render(e.Kind)
		msg := e.Message
		if limit := innerW - 20; limit > 3 && len(msg) > limit {
			msg = msg[:limit-3] + "..."
		}
		lines = append(lines, ts+" "+kind+" "+msg)
	}

	more := ""
	if m.Offset > 0 {
		more = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d more", m.Offset))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), more, help)
	return panelStyle(innerW).Render(content)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func kindColor(kind string) lipgloss.Color {
	switch kind {
	case "fsm":
		return theme.ColorConnecting
	case "err":
		return theme.ColorDanger
	case "code":
		return theme.ColorActive
	case "copy":
		return theme.ColorInfo
	default:
		return theme.ColorDimmed
	}
}
