package ncd

import (
	"errors"
	"fmt"
)

// ErrInvalidPairs is returned for an unrecognized pairing mode.
var ErrInvalidPairs = errors.New("pairs must be upper or all")

// Pairs selects which (i, j) item pairs a run computes.
type Pairs string

const (
	// PairsUpper keeps j >= i: the diagonal plus one of each mirrored pair.
	PairsUpper Pairs = "upper"
	// PairsAll keeps every ordered pair, n² in total.
	PairsAll Pairs = "all"
)

// ParsePairs validates a pairing mode.
func ParsePairs(s string) (Pairs, error) {
	switch Pairs(s) {
	case PairsUpper, PairsAll:
		return Pairs(s), nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidPairs, s)
	}
}

// Job is one pair to compute. Index is its position in enumeration order.
type Job struct {
	Index      int
	A          int
	B          int
	InputBytes int64
}

// Enumerate lists jobs row-major over item indices. sizes[i] is the payload
// length of item i. The order is stable and is the order samples reach the
// estimator in.
func Enumerate(sizes []int, mode Pairs) []Job {
	n := len(sizes)
	jobs := make([]Job, 0, JobCount(n, mode))

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if mode == PairsUpper && j < i {
				continue
			}
			jobs = append(jobs, Job{
				Index:      len(jobs),
				A:          i,
				B:          j,
				InputBytes: int64(sizes[i]) + int64(sizes[j]),
			})
		}
	}
	return jobs
}

// JobCount returns how many jobs Enumerate produces for n items.
func JobCount(n int, mode Pairs) int {
	if n <= 0 {
		return 0
	}
	if mode == PairsUpper {
		return n * (n + 1) / 2
	}
	return n * n
}

// RemainingBytes returns the input sizes of jobs[from:].
func RemainingBytes(jobs []Job, from int) []int64 {
	if from >= len(jobs) {
		return nil
	}
	out := make([]int64, 0, len(jobs)-from)
	for _, j := range jobs[from:] {
		out = append(out, j.InputBytes)
	}
	return out
}
