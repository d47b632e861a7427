package code

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSpaced(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"123456", "123 456"},
		{"------", "--- ---"},
		{"12345678", "1234 5678"},
		{"1234567890", "1234 5678 90"},
		{"1234", "123 4"},
		{"123", "123"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := spaced(tt.in); got != tt.want {
			t.Errorf("spaced(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFailedAndRecover(t *testing.T) {
	m := New()
	if m.Copyable() {
		t.Fatal("empty sentinel should not be copyable")
	}

	m.SetFailed()
	if m.Code != FailedCode || !m.Failed || m.Copyable() {
		t.Fatalf("after SetFailed: code=%q failed=%v", m.Code, m.Failed)
	}

	m.SetCode("123456")
	if m.Failed || !m.Copyable() {
		t.Fatal("a new code should clear the failure indicator")
	}
}

func TestProgressAnimationSettles(t *testing.T) {
	m := New()
	if cmd := m.SetProgress(40); cmd == nil {
		t.Fatal("first SetProgress should start the animation")
	}
	if cmd := m.SetProgress(35); cmd != nil {
		t.Fatal("a running animation should not be started twice")
	}

	var cmd tea.Cmd
	for i := 0; i < 10*fps; i++ {
		m, cmd = m.Update(FrameMsg{})
		if cmd == nil {
			break
		}
	}
	if m.animating {
		t.Fatal("animation did not settle")
	}
	if m.pos != 35 {
		t.Errorf("bar position = %v, want 35", m.pos)
	}
}

func TestUpdateIgnoresFramesWhenIdle(t *testing.T) {
	m := New()
	m2, cmd := m.Update(FrameMsg{})
	if cmd != nil || m2.pos != m.pos {
		t.Error("idle model should ignore frames")
	}
}

func TestView(t *testing.T) {
	m := New()
	m.Width = 60
	m.SetCode("123456")
	m.SetCountdown(17)
	v := m.View()
	if !strings.Contains(v, "123 456") {
		t.Error("view should contain the spaced code")
	}
	if !strings.Contains(v, "expires in 17s") {
		t.Error("view should contain the countdown")
	}
}
