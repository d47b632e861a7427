// Package code renders the current one-time code with its countdown and a
// progress bar that eases between the once-a-second updates.
package code

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/totp-live/tui/internal/stream"
	"github.com/totp-live/tui/internal/theme"
)

const (
	fps = 30

	// FailedCode is shown after a connection failure.
	FailedCode = "000000"
)

// FrameMsg advances the progress bar animation by one frame.
type FrameMsg struct{}

// Model holds the code panel state.
type Model struct {
	Code      string
	Failed    bool
	Remaining int
	Percent   float64
	Width     int

	bar       progress.Model
	spring    harmonica.Spring
	pos       float64
	vel       float64
	animating bool
}

// New creates a code panel showing the empty sentinel.
func New() Model {
	return Model{
		Code:      stream.NoCode,
		Remaining: 30,
		Percent:   100,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spring:    harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
		pos:       100,
	}
}

// SetCode replaces the displayed code and clears the failure indicator.
func (m *Model) SetCode(code string) {
	m.Code = code
	m.Failed = false
}

// SetFailed shows the failure sentinel until the next code arrives.
func (m *Model) SetFailed() {
	m.Code = FailedCode
	m.Failed = true
}

// SetCountdown sets the seconds remaining.
func (m *Model) SetCountdown(seconds int) {
	m.Remaining = seconds
}

// SetProgress sets the bar target and starts the animation if it is not
// already running.
func (m *Model) SetProgress(percent float64) tea.Cmd {
	m.Percent = percent
	if m.animating {
		return nil
	}
	m.animating = true
	return frame()
}

// Copyable reports whether the displayed code is a real code.
func (m Model) Copyable() bool {
	return !m.Failed && m.Code != "" && m.Code != stream.NoCode
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg { return FrameMsg{} })
}

// Update handles animation frames.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(FrameMsg); !ok || !m.animating {
		return m, nil
	}
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.Percent)
	if math.Abs(m.pos-m.Percent) < 0.05 && math.Abs(m.vel) < 0.05 {
		m.pos, m.vel = m.Percent, 0
		m.animating = false
		return m, nil
	}
	return m, frame()
}

// spaced renders "123456" as "123 456" and longer codes in groups of four.
func spaced(code string) string {
	group := 3
	if len(code) > 6 {
		group = 4
	}
	if len(code) <= group {
		return code
	}
	var b strings.Builder
	for i, r := range code {
		if i > 0 && i%group == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// View renders the panel.
func (m Model) View() string {
	width := m.Width
	if width < 30 {
		width = 30
	}

	color := theme.ColorCode
	switch {
	case m.Failed:
		color = theme.ColorFailed
	case !m.Copyable():
		color = theme.ColorSentinel
	}
	codeStr := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(spaced(m.Code))

	countdown := lipgloss.NewStyle().Foreground(theme.TimeColor(m.Percent)).
		Render(fmt.Sprintf("expires in %ds", m.Remaining))

	bar := m.bar
	bar.Width = width - 4
	pct := math.Max(0, math.Min(1, m.pos/100))

	return lipgloss.JoinVertical(lipgloss.Center, codeStr, countdown, bar.ViewAs(pct))
}
