// Package ncd computes the Normalized Compression Distance between byte
// strings and enumerates the pair jobs of a benchmark run.
package ncd

import (
	"fmt"

	"github.com/haskel/ncdprime/internal/compressor"
)

// Delimiter separates x and y in the joined input. Payloads are assumed not
// to be NUL-sensitive to the compressor; this is an approximation.
const Delimiter byte = 0x00

// Result holds the three compressed sizes and the resulting distance.
type Result struct {
	CX  int64   `json:"c_x"`
	CY  int64   `json:"c_y"`
	CXY int64   `json:"c_xy"`
	NCD float64 `json:"ncd"`
}

// Compute returns NCD(x, y) = (C(xy) - min(C(x), C(y))) / max(C(x), C(y)),
// or 0 when both compress to nothing. It calls c exactly three times.
func Compute(c compressor.Compressor, x, y []byte) (Result, error) {
	rx, err := c.Compress(x)
	if err != nil {
		return Result{}, fmt.Errorf("compress x: %w", err)
	}

	ry, err := c.Compress(y)
	if err != nil {
		return Result{}, fmt.Errorf("compress y: %w", err)
	}

	rxy, err := c.Compress(Join(x, y))
	if err != nil {
		return Result{}, fmt.Errorf("compress xy: %w", err)
	}

	return FromSizes(rx.CompressedBytes, ry.CompressedBytes, rxy.CompressedBytes), nil
}

// FromSizes computes the distance from already known compressed sizes.
func FromSizes(cx, cy, cxy int64) Result {
	lo, hi := cx, cy
	if lo > hi {
		lo, hi = hi, lo
	}

	res := Result{CX: cx, CY: cy, CXY: cxy}
	if hi > 0 {
		res.NCD = float64(cxy-lo) / float64(hi)
	}
	return res
}

// Join returns a new buffer x ++ Delimiter ++ y.
func Join(x, y []byte) []byte {
	out := make([]byte, 0, len(x)+1+len(y))
	out = append(out, x...)
	out = append(out, Delimiter)
	return append(out, y...)
}
