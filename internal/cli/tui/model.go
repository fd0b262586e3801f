package tui

import (
	"github.com/haskel/ncdprime/internal/results"
	"github.com/haskel/ncdprime/internal/runner"
)

// Config describes the run shown by the dashboard.
type Config struct {
	CorpusDir  string
	Compressor string
	Pairs      string
	Workers    int
	ShowETA    bool
}

// recentRows is how many finished cells the dashboard lists.
const recentRows = 8

// Model represents the dashboard state
type Model struct {
	config Config

	// Run state, fed by Reporter
	total    int
	progress runner.Progress
	recent   []results.Row
	summary  *runner.Summary

	// UI state
	width   int
	height  int
	done    bool
	aborted bool
	err     error
}

// NewModel creates a new dashboard model
func NewModel(cfg Config) Model {
	return Model{
		config: cfg,
	}
}

// Aborted reports whether the user quit before the run finished.
func (m Model) Aborted() bool {
	return m.aborted
}

func (m *Model) push(row results.Row) {
	m.recent = append(m.recent, row)
	if len(m.recent) > recentRows {
		m.recent = m.recent[len(m.recent)-recentRows:]
	}
}
