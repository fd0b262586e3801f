// Package runner drives a matrix run: it loads a corpus, computes NCD for
// every job in enumeration order, streams results, and keeps a completion
// time estimate current.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/haskel/ncdprime/internal/compressor"
	"github.com/haskel/ncdprime/internal/corpus"
	"github.com/haskel/ncdprime/internal/estimator"
	"github.com/haskel/ncdprime/internal/monitor"
	"github.com/haskel/ncdprime/internal/ncd"
	"github.com/haskel/ncdprime/internal/results"
)

// DefaultRefitFirstN is the window of the first fit.
const DefaultRefitFirstN = 6

// Options configures one run.
type Options struct {
	CorpusDir string
	// Compressor must be safe for concurrent use when Workers > 1.
	Compressor   compressor.Compressor
	Pairs        ncd.Pairs
	MaxItemBytes int
	OutPath      string
	Workers      int
	RefitFirstN  int
	Reporter     Reporter
}

func (o *Options) normalize() error {
	if o.Compressor == nil {
		return errors.New("no compressor configured")
	}
	if o.OutPath == "" {
		return errors.New("no output path configured")
	}
	if _, err := ncd.ParsePairs(string(o.Pairs)); err != nil {
		return err
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.RefitFirstN < 2 {
		o.RefitFirstN = DefaultRefitFirstN
	}
	if o.Reporter == nil {
		o.Reporter = NopReporter{}
	}
	return nil
}

// Summary describes a finished run.
type Summary struct {
	OutPath  string               `json:"out"`
	MetaPath string               `json:"meta"`
	Items    int                  `json:"items"`
	Jobs     int                  `json:"jobs"`
	Elapsed  time.Duration        `json:"elapsed"`
	Fit      *estimator.FitResult `json:"fit"`
}

// Runner executes matrix runs.
type Runner struct {
	logger   *slog.Logger
	monitors []monitor.Monitor
}

// New creates a runner. Monitors, when given, are sampled once per run for
// the metadata sidecar.
func New(logger *slog.Logger, monitors ...monitor.Monitor) *Runner {
	return &Runner{logger: logger, monitors: monitors}
}

// Run executes every job of the corpus. The first error aborts the run;
// lines already written stay on disk.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	items, err := corpus.Load(opts.CorpusDir)
	if err != nil {
		return nil, err
	}

	payloads := make([][]byte, len(items))
	sizes := make([]int, len(items))
	for i, it := range items {
		data, err := corpus.ReadPayload(it, opts.MaxItemBytes)
		if err != nil {
			return nil, err
		}
		payloads[i] = data
		sizes[i] = len(data)
	}

	jobs := ncd.Enumerate(sizes, opts.Pairs)

	outPath, err := filepath.Abs(opts.OutPath)
	if err != nil {
		return nil, err
	}

	w, err := results.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open results: %w", err)
	}
	defer w.Close()

	r.logger.Info("run started",
		"corpus", opts.CorpusDir,
		"compressor", opts.Compressor.Name(),
		"pairs", opts.Pairs,
		"items", len(items),
		"jobs", len(jobs),
		"workers", opts.Workers,
		"out", outPath,
	)

	started := time.Now()
	state := &runState{
		logger:      r.logger,
		items:       items,
		payloads:    payloads,
		jobs:        jobs,
		writer:      w,
		est:         estimator.New(),
		refitFirstN: opts.RefitFirstN,
		reporter:    opts.Reporter,
		started:     started,
	}

	opts.Reporter.Start(len(jobs))

	if opts.Workers == 1 {
		err = runSequential(ctx, jobs, payloads, opts.Compressor, state.apply)
	} else {
		err = runPool(ctx, jobs, payloads, opts.Compressor, opts.Workers, state.apply)
	}
	if err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close results: %w", err)
	}

	summary := &Summary{
		OutPath:  outPath,
		MetaPath: MetaPath(outPath),
		Items:    len(items),
		Jobs:     len(jobs),
		Elapsed:  time.Since(started),
		Fit:      state.est.Fit(),
	}

	meta := &Meta{
		Format:         MetaFormat,
		CorpusDir:      opts.CorpusDir,
		Compressor:     opts.Compressor.Name(),
		Pairs:          opts.Pairs,
		MaxItemBytes:   opts.MaxItemBytes,
		Workers:        opts.Workers,
		Items:          len(items),
		Jobs:           len(jobs),
		Samples:        state.est.Len(),
		StartedAt:      started.UTC(),
		ElapsedSeconds: summary.Elapsed.Seconds(),
		Fit:            summary.Fit,
	}
	if len(r.monitors) > 0 {
		meta.Host = monitor.Collect(r.monitors, r.logger)
	}
	if err := WriteMeta(summary.MetaPath, meta); err != nil {
		return nil, fmt.Errorf("failed to write run metadata: %w", err)
	}

	r.logger.Info("run finished",
		"jobs", len(jobs),
		"elapsed", summary.Elapsed,
		"out", outPath,
	)

	opts.Reporter.Finish(summary)

	return summary, nil
}

// outcome is a computed job waiting to be applied.
type outcome struct {
	job    ncd.Job
	result ncd.Result
	wall   time.Duration
}

func compute(c compressor.Compressor, payloads [][]byte, job ncd.Job) (outcome, error) {
	start := time.Now()
	res, err := ncd.Compute(c, payloads[job.A], payloads[job.B])
	wall := time.Since(start)
	if err != nil {
		return outcome{}, fmt.Errorf("job %d (%d, %d): %w", job.Index, job.A, job.B, err)
	}
	return outcome{job: job, result: res, wall: wall}, nil
}

func runSequential(ctx context.Context, jobs []ncd.Job, payloads [][]byte, c compressor.Compressor, apply func(outcome) error) error {
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		o, err := compute(c, payloads, job)
		if err != nil {
			return err
		}
		if err := apply(o); err != nil {
			return err
		}
	}
	return nil
}

// runState is owned by whichever goroutine applies outcomes; nothing else
// touches the estimator or the writer.
type runState struct {
	logger      *slog.Logger
	items       []corpus.Item
	payloads    [][]byte
	jobs        []ncd.Job
	writer      *results.Writer
	est         *estimator.Estimator
	refitFirstN int
	reporter    Reporter
	started     time.Time
	done        int
}

func (s *runState) apply(o outcome) error {
	job := o.job

	s.est.AddSample(estimator.Sample{
		InputBytes:  job.InputBytes,
		WallTime:    o.wall.Seconds(),
		OutputBytes: o.result.CXY,
	})
	if s.est.ShouldRefit() {
		n := max(s.refitFirstN, s.est.Len())
		if fit := s.est.FitFromFirstN(n); fit != nil {
			s.logger.Debug("estimator refit",
				"model", fit.Model,
				"r2", fit.R2,
				"samples", s.est.Len(),
				"window", n,
			)
		}
	}

	row := results.Row{
		A:      s.items[job.A].Key,
		B:      s.items[job.B].Key,
		ABytes: len(s.payloads[job.A]),
		BBytes: len(s.payloads[job.B]),
		CX:     o.result.CX,
		CY:     o.result.CY,
		CXY:    o.result.CXY,
		NCD:    o.result.NCD,
	}
	if err := s.writer.Write(row); err != nil {
		return err
	}
	s.done++

	p := Progress{
		Done:    s.done,
		Total:   len(s.jobs),
		Elapsed: time.Since(s.started),
		Fit:     s.est.Fit(),
		Last:    row,
	}
	if p.Fit != nil && s.done < len(s.jobs) {
		if secs, ok := s.est.EstimateRemaining(ncd.RemainingBytes(s.jobs, s.done)); ok {
			p.ETA = secs
			p.HasETA = true
		}
	}
	s.reporter.Update(p)

	return nil
}
