package ncd

import (
	"context"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/haskel/ncdprime/internal/compressor"
)

// Matrix computes NCD for every (a[i], b[j]). Each distinct input across a
// and b is compressed once on its own; every cell then costs one call for the
// joined input. Cells run on up to workers goroutines, so c must be safe for
// concurrent use when workers > 1.
func Matrix(ctx context.Context, c compressor.Compressor, a, b [][]byte, workers int) ([][]Result, error) {
	cache := make(map[[blake2b.Size256]byte]int64)
	single := func(data []byte) (int64, error) {
		key := blake2b.Sum256(data)
		if n, ok := cache[key]; ok {
			return n, nil
		}
		r, err := c.Compress(data)
		if err != nil {
			return 0, err
		}
		cache[key] = r.CompressedBytes
		return r.CompressedBytes, nil
	}

	sizesA := make([]int64, len(a))
	for i, x := range a {
		n, err := single(x)
		if err != nil {
			return nil, fmt.Errorf("compress a[%d]: %w", i, err)
		}
		sizesA[i] = n
	}

	sizesB := make([]int64, len(b))
	for j, y := range b {
		n, err := single(y)
		if err != nil {
			return nil, fmt.Errorf("compress b[%d]: %w", j, err)
		}
		sizesB[j] = n
	}

	out := make([][]Result, len(a))
	for i := range out {
		out[i] = make([]Result, len(b))
	}

	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range a {
		for j := range b {
			if ctx.Err() != nil {
				break
			}
			i, j := i, j
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, err := c.Compress(Join(a[i], b[j]))
				if err != nil {
					return fmt.Errorf("compress a[%d]b[%d]: %w", i, j, err)
				}
				out[i][j] = FromSizes(sizesA[i], sizesB[j], r.CompressedBytes)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Values extracts the distances of a result matrix.
func Values(m [][]Result) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, r := range row {
			out[i][j] = r.NCD
		}
	}
	return out
}
