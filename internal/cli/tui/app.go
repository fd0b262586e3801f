package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/ncdprime/internal/runner"
)

// ErrAborted is returned by Run when the user quits the dashboard before
// the run finished.
var ErrAborted = errors.New("run aborted from dashboard")

// Reporter forwards runner progress to the dashboard program.
type Reporter struct {
	send func(tea.Msg)
}

// NewReporter creates a reporter that delivers messages through send,
// usually (*tea.Program).Send.
func NewReporter(send func(tea.Msg)) *Reporter {
	return &Reporter{send: send}
}

func (r *Reporter) Start(total int) {
	r.send(startMsg{total: total})
}

func (r *Reporter) Update(p runner.Progress) {
	r.send(progressMsg(p))
}

func (r *Reporter) Finish(s *runner.Summary) {
	r.send(finishMsg{summary: s})
}

// RunFunc executes the work the dashboard watches.
type RunFunc func(ctx context.Context, reporter runner.Reporter) error

// Run shows the dashboard on out while fn executes. Quitting the dashboard
// cancels the context passed to fn; Run returns once fn has returned.
func Run(ctx context.Context, cfg Config, out io.Writer, fn RunFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		NewModel(cfg),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)

	runErr := make(chan error, 1)
	go func() {
		err := fn(ctx, NewReporter(p.Send))
		p.Send(doneMsg{err: err})
		runErr <- err
	}()

	final, err := p.Run()
	cancel()
	fnErr := <-runErr

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}
	if m, ok := final.(Model); ok && m.Aborted() {
		return ErrAborted
	}
	return fnErr
}
