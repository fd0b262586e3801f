// Package compressor defines the compression capability NCD is computed with
// and a name-keyed registry of concrete implementations.
package compressor

import (
	"errors"
	"time"
)

// ErrUnknownCompressor is returned when a name has no registered factory.
var ErrUnknownCompressor = errors.New("unknown compressor")

// Result is one observation of a single compression call.
type Result struct {
	CompressedBytes int64
	WallTime        time.Duration
}

// Compressor compresses byte strings and reports the compressed size.
//
// Compress must not modify data, and WallTime covers only the compression
// call itself.
type Compressor interface {
	// Name returns the registry name.
	Name() string

	// Compress compresses data and reports the output size and time spent.
	Compress(data []byte) (Result, error)
}

// Options holds tuning knobs shared by the built-in compressors.
type Options struct {
	// Level is the compression level; 0 selects the compressor's default.
	Level int `json:"level" yaml:"level" toml:"level"`
}

// Factory builds a compressor from options.
type Factory func(opts Options) (Compressor, error)

// timed runs fn and measures it.
func timed(fn func() (int, error)) (Result, error) {
	start := time.Now()
	n, err := fn()
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}
	return Result{CompressedBytes: int64(n), WallTime: elapsed}, nil
}
