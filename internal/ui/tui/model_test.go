package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	session "codescope/internal/shared/progress"
)

func TestModelTracksProgress(t *testing.T) {
	m := New()

	updated, cmd := m.Update(StateMsg(session.State{
		SessionID:      "sess-tui",
		FilesProcessed: 5,
		TotalFiles:     10,
		Percentage:     50,
		Status:         session.StatusScanning,
	}))
	state, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model type, got %T", updated)
	}
	if cmd != nil {
		t.Fatal("expected no command while scanning")
	}
	if state.done {
		t.Fatal("expected model to keep running while scanning")
	}

	view := state.View()
	if !strings.Contains(view, "5/10 files") {
		t.Fatalf("expected file counter in view, got %q", view)
	}
	if !strings.Contains(view, "Analyzing Project") {
		t.Fatalf("expected title in view, got %q", view)
	}
}

func TestModelQuitsOnTerminalState(t *testing.T) {
	m := New()

	updated, cmd := m.Update(StateMsg(session.State{
		FilesProcessed: 10,
		TotalFiles:     10,
		Percentage:     100,
		Status:         session.StatusCompleted,
	}))
	state := updated.(Model)
	if !state.done {
		t.Fatal("expected model to finish on completed state")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}
	if !strings.Contains(state.View(), "Analysis complete") {
		t.Fatalf("expected completion view, got %q", state.View())
	}
}

func TestModelShowsFailure(t *testing.T) {
	m := New()

	updated, _ := m.Update(StateMsg(session.State{
		Status: session.StatusFailed,
		Error:  "nothing to analyze",
	}))
	state := updated.(Model)
	if !state.done {
		t.Fatal("expected model to finish on failed state")
	}
	if !strings.Contains(state.View(), "nothing to analyze") {
		t.Fatalf("expected failure reason in view, got %q", state.View())
	}
}

func TestModelQuitsOnStreamClose(t *testing.T) {
	m := New()

	updated, cmd := m.Update(StreamClosedMsg{})
	state := updated.(Model)
	if !state.done {
		t.Fatal("expected model to finish when the stream closes")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestModelQuitsOnKeypress(t *testing.T) {
	m := New()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command for q")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}
}
