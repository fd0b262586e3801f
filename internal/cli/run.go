package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/haskel/ncdprime/internal/cli/tui"
	"github.com/haskel/ncdprime/internal/compressor"
	"github.com/haskel/ncdprime/internal/config"
	"github.com/haskel/ncdprime/internal/monitor"
	"github.com/haskel/ncdprime/internal/ncd"
	"github.com/haskel/ncdprime/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run NCD benchmarks",
}

var runMatrixCmd = &cobra.Command{
	Use:   "matrix <corpus-dir>",
	Short: "Compute NCD over every pair of a matrix corpus",
	Long: `Compute the normalized compression distance for every job of a corpus
and stream one JSON line per job to --out, in enumeration order. A running
completion time estimate is kept from the compression timings.`,
	Example: `  ncdprime run matrix data/m8
  ncdprime run matrix data/m8 -z zstd --pairs all -o all.jsonl
  ncdprime run matrix data/m8 --workers 4 --max-item-bytes 4096
  ncdprime run matrix data/m8 --tui`,
	Args: cobra.ExactArgs(1),
	RunE: runRunMatrix,
}

var (
	runCompressor   string
	runLevel        int
	runOut          string
	runMaxItemBytes int
	runPairs        string
	runWorkers      int
	runRefitFirstN  int
	runETA          bool
	runNoETA        bool
	runProgress     bool
	runNoProgress   bool
	runTUI          bool
)

func init() {
	f := runMatrixCmd.Flags()
	f.StringVarP(&runCompressor, "compressor", "z", "gzip", "compressor name (see 'compressors list')")
	f.IntVar(&runLevel, "level", 0, "compression level, 0 for the compressor default")
	f.StringVarP(&runOut, "out", "o", "results.jsonl", "results JSONL path")
	f.IntVar(&runMaxItemBytes, "max-item-bytes", 0, "truncate every item to this many bytes, 0 for no limit")
	f.StringVar(&runPairs, "pairs", string(ncd.PairsUpper), "pair enumeration: upper or all")
	f.IntVarP(&runWorkers, "workers", "j", 1, "parallel compression workers")
	f.IntVar(&runRefitFirstN, "refit-first-n", runner.DefaultRefitFirstN, "samples used by the first estimator fit")
	f.BoolVar(&runETA, "eta", true, "show the completion time estimate")
	f.BoolVar(&runNoETA, "no-eta", false, "hide the completion time estimate")
	f.BoolVar(&runProgress, "progress", true, "show a live progress line on a terminal")
	f.BoolVar(&runNoProgress, "no-progress", false, "disable the live progress line")
	f.BoolVar(&runTUI, "tui", false, "show the interactive run dashboard")

	runCmd.AddCommand(runMatrixCmd)
	rootCmd.AddCommand(runCmd)
}

// applyRunFlags copies explicitly set flags over the config values.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	rc := &cfg.Run
	if flags.Changed("compressor") {
		rc.Compressor = runCompressor
	}
	if flags.Changed("level") {
		rc.Level = runLevel
	}
	if flags.Changed("out") {
		rc.Out = runOut
	}
	if flags.Changed("max-item-bytes") {
		rc.MaxItemBytes = runMaxItemBytes
	}
	if flags.Changed("pairs") {
		rc.Pairs = runPairs
	}
	if flags.Changed("workers") {
		rc.Workers = runWorkers
	}
	if flags.Changed("eta") {
		rc.ETA = runETA
	}
	if runNoETA {
		rc.ETA = false
	}
	if flags.Changed("progress") {
		rc.Progress = runProgress
	}
	if runNoProgress {
		rc.Progress = false
	}
	if flags.Changed("refit-first-n") {
		cfg.Estimator.RefitFirstN = runRefitFirstN
	}
}

func runRunMatrix(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg)
	corpusDir := args[0]

	c, err := compressor.Default().Get(cfg.Run.Compressor, compressor.Options{Level: cfg.Run.Level})
	if err != nil {
		return err
	}
	pairs, err := ncd.ParsePairs(cfg.Run.Pairs)
	if err != nil {
		return err
	}

	opts := runner.Options{
		CorpusDir:    corpusDir,
		Compressor:   c,
		Pairs:        pairs,
		MaxItemBytes: cfg.Run.MaxItemBytes,
		OutPath:      cfg.Run.Out,
		Workers:      cfg.Run.Workers,
		RefitFirstN:  cfg.Estimator.RefitFirstN,
	}

	monitors := monitor.Defaults(corpusDir, filepath.Dir(cfg.Run.Out))
	r := runner.New(log, monitors...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var summary *runner.Summary
	if runTUI {
		dash := tui.Config{
			CorpusDir:  corpusDir,
			Compressor: c.Name(),
			Pairs:      string(pairs),
			Workers:    cfg.Run.Workers,
			ShowETA:    cfg.Run.ETA,
		}
		err = tui.Run(ctx, dash, cmd.ErrOrStderr(), func(ctx context.Context, rep runner.Reporter) error {
			opts.Reporter = rep
			s, err := r.Run(ctx, opts)
			summary = s
			return err
		})
	} else {
		opts.Reporter = pickReporter(cmd.ErrOrStderr(), cfg.Run.ETA, cfg.Run.Progress)
		summary, err = r.Run(ctx, opts)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", summary.Jobs, summary.OutPath)
	return nil
}

// pickReporter chooses the live line on a terminal, periodic ETA lines
// otherwise, and nothing when neither output is wanted.
func pickReporter(w io.Writer, showETA, progress bool) runner.Reporter {
	if progress && isTerminal(w) {
		return runner.NewLineReporter(w, showETA)
	}
	if showETA {
		return runner.NewPeriodicReporter(w)
	}
	return runner.NopReporter{}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
