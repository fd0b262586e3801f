// Package corpus generates and loads the deterministic matrix dataset that
// NCD benchmarks run over.
package corpus

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrAlreadyExists is returned when the output directory exists and
	// overwriting was not requested.
	ErrAlreadyExists = errors.New("output already exists")
	// ErrEmptyCorpus is returned when a corpus directory holds no items.
	ErrEmptyCorpus = errors.New("no items found")
)

// Pattern selects how cell sizes vary across the grid.
type Pattern string

const (
	PatternGradient Pattern = "gradient"
	PatternRow      Pattern = "row"
	PatternCol      Pattern = "col"
	PatternConstant Pattern = "constant"
)

// MatrixSpec fully determines a generated corpus.
//
// Rows or Cols <= 0 gives an empty grid. MinBytes > MaxBytes is accepted;
// sizes that round below zero are clamped to 0.
type MatrixSpec struct {
	Rows     int     `json:"rows" yaml:"rows" toml:"rows"`
	Cols     int     `json:"cols" yaml:"cols" toml:"cols"`
	MinBytes int     `json:"min_bytes" yaml:"min_bytes" toml:"min_bytes"`
	MaxBytes int     `json:"max_bytes" yaml:"max_bytes" toml:"max_bytes"`
	Seed     int64   `json:"seed" yaml:"seed" toml:"seed"`
	Pattern  Pattern `json:"pattern" yaml:"pattern" toml:"pattern"`
}

// Cell is one grid position and its payload size.
type Cell struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Bytes int `json:"bytes"`
}

// Key returns the stable cell name, e.g. r003_c010.
func (c Cell) Key() string {
	return CellKey(c.Row, c.Col)
}

// CellKey formats a row/col pair with zero-padded indices.
func CellKey(row, col int) string {
	return fmt.Sprintf("r%03d_c%03d", row, col)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// position returns the interpolation parameter in [0, 1] for a cell.
// Unknown patterns behave like gradient.
func (s MatrixSpec) position(row, col int) float64 {
	switch s.Pattern {
	case PatternConstant:
		return 0
	case PatternRow:
		if s.Rows == 1 {
			return 0
		}
		return float64(row) / float64(s.Rows-1)
	case PatternCol:
		if s.Cols == 1 {
			return 0
		}
		return float64(col) / float64(s.Cols-1)
	default:
		denom := (s.Rows - 1) + (s.Cols - 1)
		if denom <= 0 {
			return 0
		}
		return float64(row+col) / float64(denom)
	}
}

// CellSize returns the payload size of one cell.
func (s MatrixSpec) CellSize(row, col int) int {
	t := s.position(row, col)
	n := int(math.RoundToEven(lerp(float64(s.MinBytes), float64(s.MaxBytes), t)))
	if n < 0 {
		return 0
	}
	return n
}

// Cells returns every cell in row-major order.
func (s MatrixSpec) Cells() []Cell {
	if s.Rows <= 0 || s.Cols <= 0 {
		return nil
	}

	cells := make([]Cell, 0, s.Rows*s.Cols)
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			cells = append(cells, Cell{Row: r, Col: c, Bytes: s.CellSize(r, c)})
		}
	}
	return cells
}
