package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/ncdprime/internal/runner"
)

type startMsg struct {
	total int
}

type progressMsg runner.Progress

type finishMsg struct {
	summary *runner.Summary
}

// doneMsg is sent once the run function has returned.
type doneMsg struct {
	err error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case startMsg:
		m.total = msg.total
		return m, nil

	case progressMsg:
		m.progress = runner.Progress(msg)
		m.push(msg.Last)
		return m, nil

	case finishMsg:
		m.summary = msg.summary
		return m, nil

	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if !m.done {
			m.aborted = true
		}
		return m, tea.Quit
	}

	return m, nil
}
