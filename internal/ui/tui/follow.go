package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	session "codescope/internal/shared/progress"
)

// Follow displays states until the stream closes, a terminal state arrives,
// or the user quits. The forwarding goroutine exits when the caller
// unsubscribes and the channel closes.
func Follow(states <-chan session.State) error {
	p := tea.NewProgram(New())

	go func() {
		for state := range states {
			p.Send(StateMsg(state))
		}
		p.Send(StreamClosedMsg{})
	}()

	_, err := p.Run()
	return err
}
