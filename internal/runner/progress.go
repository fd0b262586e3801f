package runner

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/haskel/ncdprime/internal/estimator"
	"github.com/haskel/ncdprime/internal/results"
)

// Progress is reported after every applied job.
type Progress struct {
	Done    int
	Total   int
	Elapsed time.Duration
	// ETA is the estimated remaining time in seconds, valid when HasETA.
	ETA    float64
	HasETA bool
	Fit    *estimator.FitResult
	Last   results.Row
}

// ETAText renders the estimate, or "" when there is none.
func (p Progress) ETAText() string {
	if !p.HasETA || p.Fit == nil {
		return ""
	}
	return fmt.Sprintf("ETA %s (model=%s, r2=%.2f)", FormatSeconds(p.ETA), p.Fit.Model, p.Fit.R2)
}

// Reporter receives run progress. Calls come from a single goroutine.
type Reporter interface {
	Start(total int)
	Update(p Progress)
	Finish(s *Summary)
}

type NopReporter struct{}

func (NopReporter) Start(int) {}

func (NopReporter) Update(Progress) {}

func (NopReporter) Finish(*Summary) {}

// periodicEvery is how many jobs pass between plain-text ETA lines.
const periodicEvery = 25

// PeriodicReporter prints "[k/N] ETA ..." every 25 jobs when an estimate is
// available. It is used when no live progress display is active.
type PeriodicReporter struct {
	w io.Writer
}

func NewPeriodicReporter(w io.Writer) *PeriodicReporter {
	return &PeriodicReporter{w: w}
}

func (r *PeriodicReporter) Start(int) {}

func (r *PeriodicReporter) Update(p Progress) {
	if p.Done%periodicEvery != 0 && p.Done != p.Total {
		return
	}
	if text := p.ETAText(); text != "" {
		fmt.Fprintf(r.w, "[%d/%d] %s\n", p.Done, p.Total, text)
	}
}

func (r *PeriodicReporter) Finish(*Summary) {}

// LineReporter redraws a single status line in place, at most a few times
// per second.
type LineReporter struct {
	w       io.Writer
	showETA bool
	redraw  rate.Sometimes
	last    Progress
	width   int
}

func NewLineReporter(w io.Writer, showETA bool) *LineReporter {
	return &LineReporter{
		w:       w,
		showETA: showETA,
		redraw:  rate.Sometimes{Interval: 200 * time.Millisecond},
	}
}

func (r *LineReporter) Start(total int) {
	r.last = Progress{Total: total}
	r.draw()
}

func (r *LineReporter) Update(p Progress) {
	r.last = p
	if p.Done == p.Total {
		r.draw()
		return
	}
	r.redraw.Do(r.draw)
}

func (r *LineReporter) Finish(*Summary) {
	fmt.Fprintln(r.w)
}

func (r *LineReporter) draw() {
	line := StatusLine(r.last, r.showETA)
	pad := ""
	if n := r.width - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	r.width = len(line)
	fmt.Fprintf(r.w, "\r%s%s", line, pad)
}

const barWidth = 30

// StatusLine renders "ncd [####------] k/N  ETA ...".
func StatusLine(p Progress, showETA bool) string {
	filled := 0
	if p.Total > 0 {
		filled = p.Done * barWidth / p.Total
	}

	var b strings.Builder
	b.WriteString("ncd [")
	b.WriteString(strings.Repeat("#", filled))
	b.WriteString(strings.Repeat("-", barWidth-filled))
	fmt.Fprintf(&b, "] %d/%d", p.Done, p.Total)
	if showETA {
		if text := p.ETAText(); text != "" {
			b.WriteString("  ")
			b.WriteString(text)
		}
	}
	return b.String()
}

// FormatSeconds renders a duration as 12.3s, 4m05.0s or 1h02m.
func FormatSeconds(s float64) string {
	if !(s > 0) {
		s = 0
	}
	if math.IsInf(s, 1) {
		return "inf"
	}
	if s < 60 {
		return fmt.Sprintf("%.1fs", s)
	}
	m := math.Floor(s / 60)
	sec := math.Mod(s, 60)
	if m < 60 {
		return fmt.Sprintf("%dm%04.1fs", int(m), sec)
	}
	h := math.Floor(m / 60)
	m = math.Mod(m, 60)
	return fmt.Sprintf("%dh%02dm", int(h), int(m))
}
