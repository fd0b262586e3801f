package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

// GenerateOptions controls what Generate may do to the filesystem.
type GenerateOptions struct {
	// Overwrite replaces an existing output directory, removing only the
	// paths a generation creates.
	Overwrite bool
	// DryRun computes the plan without touching the filesystem.
	DryRun bool
}

// Plan is what a generation writes, or would write for a dry run.
type Plan struct {
	OutDir string     `json:"outdir"`
	Spec   MatrixSpec `json:"spec"`
	Cells  []Cell     `json:"cells"`
}

// TotalBytes sums the payload sizes of the plan.
func (p *Plan) TotalBytes() int64 {
	var total int64
	for _, c := range p.Cells {
		total += int64(c.Bytes)
	}
	return total
}

// Generator writes matrix corpora.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a generator.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate writes the corpus described by spec into outdir: one payload per
// cell first, the manifest last.
func (g *Generator) Generate(outdir string, spec MatrixSpec, opts GenerateOptions) (*Plan, error) {
	abs, err := filepath.Abs(outdir)
	if err != nil {
		return nil, err
	}

	cells := spec.Cells()
	if cells == nil {
		cells = []Cell{}
	}
	plan := &Plan{OutDir: abs, Spec: spec, Cells: cells}

	exists, err := pathExists(abs)
	if err != nil {
		return nil, err
	}
	if exists && !opts.Overwrite {
		return nil, fmt.Errorf("%w: %s (pass --overwrite to replace it)", ErrAlreadyExists, abs)
	}

	if opts.DryRun {
		return plan, nil
	}

	if exists {
		if err := g.removeKnown(abs, cells); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", abs, err)
		}
	}

	if err := os.MkdirAll(cellsDir(abs), 0755); err != nil {
		return nil, err
	}

	for _, c := range cells {
		if err := os.MkdirAll(cellDir(abs, c.Row, c.Col), 0755); err != nil {
			return nil, err
		}
		data := Payload(spec.Seed, c.Row, c.Col, c.Bytes)
		if err := os.WriteFile(PayloadPath(abs, c.Row, c.Col), data, 0644); err != nil {
			return nil, err
		}
	}

	m := &Manifest{Format: ManifestFormat, Spec: spec, Cells: cells}
	if err := writeManifest(abs, m); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	g.logger.Info("generated matrix corpus",
		"outdir", abs,
		"cells", len(cells),
		"bytes", plan.TotalBytes(),
	)

	return plan, nil
}

// removeKnown deletes the manifest and the payloads of both the previous
// plan (from its manifest) and the new one, then any of their directories
// that ended up empty. Nothing else is touched.
func (g *Generator) removeKnown(dir string, next []Cell) error {
	known := make(map[string]Cell, len(next))
	for _, c := range next {
		known[c.Key()] = c
	}
	if prev, err := ReadManifest(dir); err == nil {
		for _, c := range prev.Cells {
			known[c.Key()] = c
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		g.logger.Warn("previous manifest unreadable, removing planned cells only", "error", err)
	}

	var result *multierror.Error

	files := []string{ManifestPath(dir), ManifestPath(dir) + ".tmp"}
	dirs := make([]string, 0, len(known)+2)
	for _, c := range known {
		files = append(files, PayloadPath(dir, c.Row, c.Col))
		dirs = append(dirs, cellDir(dir, c.Row, c.Col))
	}
	dirs = append(dirs, cellsDir(dir), dir)

	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			result = multierror.Append(result, err)
		}
	}

	for _, d := range dirs {
		if err := removeIfEmpty(d); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// removeIfEmpty removes d when it is an empty directory.
func removeIfEmpty(d string) error {
	entries, err := os.ReadDir(d)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	return os.Remove(d)
}

func pathExists(p string) (bool, error) {
	_, err := os.Lstat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
