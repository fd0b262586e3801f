package compressor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

const (
	defaultFlateLevel = 9
	defaultZstdLevel  = 3
)

func flateLevel(level int) (int, error) {
	if level == 0 {
		return defaultFlateLevel, nil
	}
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return 0, fmt.Errorf("level %d out of range [%d, %d]", level, flate.HuffmanOnly, flate.BestCompression)
	}
	return level, nil
}

// streamCompressor covers the flate family, which only differs in framing.
type streamCompressor struct {
	name      string
	level     int
	newWriter func(w io.Writer, level int) (io.WriteCloser, error)
}

func (c *streamCompressor) Name() string {
	return c.name
}

func (c *streamCompressor) Compress(data []byte) (Result, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	return timed(func() (int, error) {
		w, err := c.newWriter(&buf, c.level)
		if err != nil {
			return 0, err
		}
		if _, err := w.Write(data); err != nil {
			w.Close()
			return 0, err
		}
		if err := w.Close(); err != nil {
			return 0, err
		}
		return buf.Len(), nil
	})
}

func newStream(name string, opts Options, newWriter func(io.Writer, int) (io.WriteCloser, error)) (Compressor, error) {
	level, err := flateLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	return &streamCompressor{name: name, level: level, newWriter: newWriter}, nil
}

// NewGzip creates a gzip compressor. The header carries no name or mtime, so
// output depends on the input only.
func NewGzip(opts Options) (Compressor, error) {
	return newStream("gzip", opts, func(w io.Writer, level int) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, level)
	})
}

// NewZlib creates a zlib compressor.
func NewZlib(opts Options) (Compressor, error) {
	return newStream("zlib", opts, func(w io.Writer, level int) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, level)
	})
}

// NewDeflate creates a raw deflate compressor.
func NewDeflate(opts Options) (Compressor, error) {
	return newStream("deflate", opts, func(w io.Writer, level int) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
}

type zstdCompressor struct {
	enc *zstd.Encoder
}

// NewZstd creates a zstd compressor. Level uses the zstd numbering (1-22)
// and is mapped onto the nearest encoder speed.
func NewZstd(opts Options) (Compressor, error) {
	level := opts.Level
	if level == 0 {
		level = defaultZstdLevel
	}
	if level < 1 || level > 22 {
		return nil, fmt.Errorf("level %d out of range [1, 22]", level)
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	return &zstdCompressor{enc: enc}, nil
}

func (c *zstdCompressor) Name() string {
	return "zstd"
}

// Compress is safe for concurrent use; EncodeAll does not share state.
func (c *zstdCompressor) Compress(data []byte) (Result, error) {
	return timed(func() (int, error) {
		return len(c.enc.EncodeAll(data, nil)), nil
	})
}

type snappyCompressor struct{}

// NewSnappy creates a snappy block compressor. Level is ignored.
func NewSnappy(_ Options) (Compressor, error) {
	return snappyCompressor{}, nil
}

func (snappyCompressor) Name() string {
	return "snappy"
}

func (snappyCompressor) Compress(data []byte) (Result, error) {
	return timed(func() (int, error) {
		return len(snappy.Encode(nil, data)), nil
	})
}

type s2Compressor struct {
	encode func(dst, src []byte) []byte
}

// NewS2 creates an s2 block compressor. Level 1 is the fast mode, 2 "better"
// and 3 "best"; 0 selects better.
func NewS2(opts Options) (Compressor, error) {
	switch opts.Level {
	case 1:
		return &s2Compressor{encode: s2.Encode}, nil
	case 0, 2:
		return &s2Compressor{encode: s2.EncodeBetter}, nil
	case 3:
		return &s2Compressor{encode: s2.EncodeBest}, nil
	default:
		return nil, fmt.Errorf("level %d out of range [1, 3]", opts.Level)
	}
}

func (c *s2Compressor) Name() string {
	return "s2"
}

func (c *s2Compressor) Compress(data []byte) (Result, error) {
	return timed(func() (int, error) {
		return len(c.encode(nil, data)), nil
	})
}
