package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/haskel/ncdprime/internal/runner"
)

const barWidth = 40

// View renders the dashboard
func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitleBar())
	sections = append(sections, m.renderRunInfo())
	sections = append(sections, m.renderProgress())

	if m.config.ShowETA {
		sections = append(sections, m.renderEstimate())
	}

	if len(m.recent) > 0 {
		sections = append(sections, m.renderRecent())
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderTitleBar() string {
	title := titleStyle.Render("NCDPRIME RUN")
	if m.width == 0 {
		return title
	}

	help := helpStyle.Render("q:abort")
	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(help) - 2
	if spacing < 1 {
		spacing = 1
	}

	return title + strings.Repeat(" ", spacing) + help
}

func (m Model) renderRunInfo() string {
	field := func(label, value string) string {
		return labelStyle.Render(label+" ") + valueStyle.Render(value)
	}

	return "  " + strings.Join([]string{
		field("corpus", m.config.CorpusDir),
		field("compressor", m.config.Compressor),
		field("pairs", m.config.Pairs),
		field("workers", fmt.Sprint(m.config.Workers)),
	}, "   ")
}

func (m Model) renderProgress() string {
	total := m.total
	if m.progress.Total > 0 {
		total = m.progress.Total
	}
	done := m.progress.Done

	percent := 0.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100
	}

	return fmt.Sprintf("  %s  %s %s",
		renderProgressBar(percent, barWidth),
		valueStyle.Render(fmt.Sprintf("%d/%d", done, total)),
		labelStyle.Render("elapsed "+runner.FormatSeconds(m.progress.Elapsed.Seconds())),
	)
}

func renderProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledBar := progressBarFilledStyle.Render(strings.Repeat("█", filled))
	emptyBar := progressBarEmptyStyle.Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("[%s%s] %5.1f%%", filledBar, emptyBar, percent)
}

func (m Model) renderEstimate() string {
	if text := m.progress.ETAText(); text != "" {
		return "  " + valueStyle.Render(text)
	}
	if m.summary != nil && m.summary.Fit != nil {
		f := m.summary.Fit
		return "  " + labelStyle.Render(fmt.Sprintf("final fit model=%s, r2=%.2f", f.Model, f.R2))
	}
	return "  " + labelStyle.Render("ETA pending (not enough samples)")
}

func (m Model) renderRecent() string {
	var lines []string
	lines = append(lines, sectionHeaderStyle.Render("  Recent cells"))

	header := fmt.Sprintf("  %-10s │ %-10s │ %9s │ %9s │ %7s", "A", "B", "A bytes", "B bytes", "NCD")
	lines = append(lines, tableHeaderStyle.Render(header))

	for i := len(m.recent) - 1; i >= 0; i-- {
		r := m.recent[i]
		ncd := lipgloss.NewStyle().Foreground(ncdColor(r.NCD)).Render(fmt.Sprintf("%7.4f", r.NCD))
		lines = append(lines, fmt.Sprintf("  %-10s │ %-10s │ %9d │ %9d │ %s",
			truncate(r.A, 10), truncate(r.B, 10), r.ABytes, r.BBytes, ncd))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	switch {
	case m.aborted:
		return errorStyle.Render("  aborted")
	case m.done && m.err == nil && m.summary != nil:
		return doneStyle.Render(fmt.Sprintf("  done: %d rows written to %s", m.summary.Jobs, m.summary.OutPath))
	case m.done:
		return errorStyle.Render("  run failed")
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
