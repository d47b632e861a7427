package app

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/totp-live/tui/internal/params"
	"github.com/totp-live/tui/internal/theme"
	"github.com/totp-live/tui/internal/views/code"
	"github.com/totp-live/tui/internal/views/debug"
	"github.com/totp-live/tui/internal/views/help"
	"github.com/totp-live/tui/internal/views/status"
	"github.com/totp-live/tui/internal/views/toast"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayDebug
)

// Input field indexes.
const (
	fieldSecret = iota
	fieldDigits
	fieldPeriod
	fieldCount
)

var fieldLabels = [fieldCount]string{"Secret", "Digits", "Period"}

var writeClipboard = clipboard.WriteAll

// Session is the part of stream.Session the UI drives.
type Session interface {
	Start(p params.Set)
	Stop()
}

// Model is the root Bubble Tea model.
type Model struct {
	session Session
	sink    *Sink

	keys   KeyMap
	width  int
	height int

	inputs  [fieldCount]textinput.Model
	focus   int
	overlay Overlay

	code      code.Model
	statusBar status.Model
	toast     toast.Model
	debug     debug.Model
}

// New creates the root model with the inputs pre-filled from initial.
func New(session Session, sink *Sink, initial params.Set, transport, endpoint string) Model {
	m := Model{
		session:   session,
		sink:      sink,
		keys:      DefaultKeyMap(),
		code:      code.New(),
		statusBar: status.New(transport, endpoint),
		debug:     debug.New(),
	}

	values := [fieldCount]string{initial.Secret, initial.Digits, initial.PeriodString()}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	m.inputs[fieldSecret].Placeholder = "base32 secret"
	m.inputs[fieldSecret].EchoMode = textinput.EchoPassword
	m.inputs[fieldSecret].EchoCharacter = '•'
	m.inputs[fieldDigits].Placeholder = "6"
	m.inputs[fieldDigits].CharLimit = 2
	m.inputs[fieldPeriod].Placeholder = "30"
	m.inputs[fieldPeriod].CharLimit = 5
	m.inputs[fieldSecret].Focus()
	return m
}

// snapshot reads the current field values.
func (m Model) snapshot() params.Set {
	return params.FromInput(
		m.inputs[fieldSecret].Value(),
		m.inputs[fieldDigits].Value(),
		m.inputs[fieldPeriod].Value(),
	)
}

// Init starts the session with the pre-filled parameters.
func (m Model) Init() tea.Cmd {
	m.session.Start(m.snapshot())
	return tea.Batch(m.sink.Next(), textinput.Blink)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.code.Width = msg.Width
		m.toast.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CodeMsg:
		if msg.Code != m.code.Code && msg.Code != "" {
			m.debug.Add("code", msg.Code)
		}
		m.code.SetCode(msg.Code)
		return m, m.sink.Next()

	case CountdownMsg:
		m.code.SetCountdown(msg.Seconds)
		return m, m.sink.Next()

	case ProgressMsg:
		return m, tea.Batch(m.code.SetProgress(msg.Percent), m.sink.Next())

	case NotifyMsg:
		m.debug.Add("err", msg.Message)
		return m, tea.Batch(m.toast.Show(toast.KindError, msg.Message), m.sink.Next())

	case FailedMsg:
		m.code.SetFailed()
		return m, m.sink.Next()

	case TransitionMsg:
		m.statusBar.SetState(msg.Transition.To.String())
		m.debug.AddTransition(msg.Transition)
		return m, m.sink.Next()

	case code.FrameMsg:
		var cmd tea.Cmd
		m.code, cmd = m.code.Update(msg)
		return m, cmd

	case toast.DismissMsg:
		m.toast = m.toast.Update(msg)
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.session.Stop()
		m.sink.Close()
		return m, tea.Quit
	}

	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Help):
			m.overlay = toggle(m.overlay, OverlayHelp)
		case key.Matches(msg, m.keys.Debug):
			m.overlay = toggle(m.overlay, OverlayDebug)
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.ScrollUp):
			m.debug.ScrollUp(1)
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.ScrollDown):
			m.debug.ScrollDown(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		return m, nil

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.toast.Dismiss()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus - 1 + fieldCount) % fieldCount)

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCode()
	}

	return m.updateInputs(msg)
}

func toggle(current, o Overlay) Overlay {
	if current == o {
		return OverlayNone
	}
	return o
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) copyCode() tea.Cmd {
	if !m.code.Copyable() {
		return nil
	}
	if err := writeClipboard(m.code.Code); err != nil {
		m.debug.Add("err", "clipboard: "+err.Error())
		return m.toast.Show(toast.KindError, "Copy failed")
	}
	m.debug.Add("copy", "code copied")
	return m.toast.Show(toast.KindInfo, "Copied!")
}

// updateInputs forwards msg to the focused input and restarts the session
// when any raw value changed.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var before [fieldCount]string
	for i := range m.inputs {
		before[i] = m.inputs[i].Value()
	}

	cmds := make([]tea.Cmd, 0, fieldCount)
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}

	for i := range m.inputs {
		if m.inputs[i].Value() != before[i] {
			m.session.Start(m.snapshot())
			break
		}
	}
	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	switch m.overlay {
	case OverlayHelp:
		return help.View(m.keys.Bindings(), m.width)
	case OverlayDebug:
		return m.debug.View(m.width, m.height)
	}

	sections := []string{
		m.statusBar.View(),
		m.renderInputs(),
		"",
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.code.View()),
	}
	if t := m.toast.View(); t != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, t))
	}
	sections = append(sections,
		theme.StyleDimmed.Render("  tab:field  ctrl+y:copy  f1:help  f2:log  ctrl+c:quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderInputs() string {
	lines := make([]string, 0, fieldCount)
	for i, in := range m.inputs {
		label := theme.StyleLabel.Render(fieldLabels[i])
		if i == m.focus {
			label = theme.StyleFocused.Width(8).Render(fieldLabels[i])
		}
		lines = append(lines, "  "+label+" "+in.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
