package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/totp-live/tui/internal/stream"
)

const sinkBuffer = 64

// Messages produced by Sink, one per display call.
type (
	CodeMsg       struct{ Code string }
	CountdownMsg  struct{ Seconds int }
	ProgressMsg   struct{ Percent float64 }
	NotifyMsg     struct{ Message string }
	FailedMsg     struct{}
	TransitionMsg struct{ Transition stream.Transition }
)

// Sink turns session display calls into Bubble Tea messages. The session
// goroutine writes; the program reads through Next.
type Sink struct {
	msgs chan tea.Msg
	done chan struct{}
	once sync.Once
}

// NewSink creates an open sink.
func NewSink() *Sink {
	return &Sink{
		msgs: make(chan tea.Msg, sinkBuffer),
		done: make(chan struct{}),
	}
}

func (s *Sink) SetCode(code string)         { s.send(CodeMsg{Code: code}) }
func (s *Sink) SetCountdown(seconds int)    { s.send(CountdownMsg{Seconds: seconds}) }
func (s *Sink) SetProgress(percent float64) { s.send(ProgressMsg{Percent: percent}) }
func (s *Sink) NotifyError(message string)  { s.send(NotifyMsg{Message: message}) }
func (s *Sink) SetFailedIndicator()         { s.send(FailedMsg{}) }

// Observe forwards session transitions. Pass it to stream.WithObserver.
func (s *Sink) Observe(t stream.Transition) { s.send(TransitionMsg{Transition: t}) }

func (s *Sink) send(msg tea.Msg) {
	select {
	case s.msgs <- msg:
	case <-s.done:
	}
}

// Next returns a command that waits for the next display message. It must
// be re-issued after each message is handled.
func (s *Sink) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.msgs:
			return msg
		case <-s.done:
			return nil
		}
	}
}

// Close releases any blocked writer and reader.
func (s *Sink) Close() {
	s.once.Do(func() { close(s.done) })
}
