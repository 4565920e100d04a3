package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	session "codescope/internal/shared/progress"
)

const maxBarWidth = 60

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)
)

// StateMsg carries a progress update into the model.
type StateMsg session.State

// StreamClosedMsg signals that no further updates will arrive.
type StreamClosedMsg struct{}

// Model renders one analysis session as an inline spinner, progress bar and
// file counter. It quits on its own once the session reaches a terminal
// state.
type Model struct {
	spinner spinner.Model
	bar     progress.Model
	state   session.State
	done    bool
}

func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))

	return Model{
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > maxBarWidth {
			width = maxBarWidth
		}
		if width > 0 {
			m.bar.Width = width
		}
	case StateMsg:
		m.state = session.State(msg)
		if m.state.Status.Terminal() {
			m.done = true
			return m, tea.Quit
		}
	case StreamClosedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.done {
		switch m.state.Status {
		case session.StatusCompleted:
			return "  " + successStyle.Render(fmt.Sprintf("✅ Analysis complete: %d files", m.state.FilesProcessed)) + "\n"
		case session.StatusFailed:
			return "  " + failStyle.Render("⚠️  Analysis failed: "+m.state.Error) + "\n"
		}
		return ""
	}

	counts := statusStyle.Render(fmt.Sprintf("%d/%d files", m.state.FilesProcessed, m.state.TotalFiles))
	bar := m.bar.ViewAs(float64(m.state.Percentage) / 100)

	return fmt.Sprintf("\n%s\n\n  %s %s %s\n",
		titleStyle("Analyzing Project"),
		m.spinner.View(),
		bar,
		counts,
	)
}
