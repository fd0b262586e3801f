package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Item is one addressable corpus entry.
type Item struct {
	Key  string `json:"key"`
	Path string `json:"path"`
	// Size is the declared payload size, or -1 when unknown.
	Size int `json:"size"`
}

// Load lists the items of a corpus directory in row-major order. It follows
// the manifest when present and otherwise scans cells/*/payload.bin.
func Load(dir string) ([]Item, error) {
	m, err := ReadManifest(dir)
	switch {
	case err == nil:
		return itemsFromManifest(dir, m)
	case errors.Is(err, fs.ErrNotExist):
		return scanCells(dir)
	default:
		return nil, err
	}
}

func itemsFromManifest(dir string, m *Manifest) ([]Item, error) {
	if len(m.Cells) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrEmptyCorpus, dir)
	}

	items := make([]Item, 0, len(m.Cells))
	for _, c := range m.Cells {
		items = append(items, Item{
			Key:  c.Key(),
			Path: PayloadPath(dir, c.Row, c.Col),
			Size: c.Bytes,
		})
	}
	return items, nil
}

func scanCells(dir string) ([]Item, error) {
	matches, err := filepath.Glob(filepath.Join(cellsDir(dir), "*", payloadFileName))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrEmptyCorpus, dir)
	}
	sort.Strings(matches)

	items := make([]Item, 0, len(matches))
	for _, p := range matches {
		items = append(items, Item{
			Key:  filepath.Base(filepath.Dir(p)),
			Path: p,
			Size: -1,
		})
	}
	return items, nil
}

// ReadPayload reads an item's bytes, truncated to maxBytes when maxBytes > 0.
func ReadPayload(item Item, maxBytes int) ([]byte, error) {
	f, err := os.Open(item.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, int64(maxBytes))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", item.Key, err)
	}
	return data, nil
}

// Mismatch describes a cell whose payload disagrees with the manifest.
type Mismatch struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Verify regenerates every cell of a corpus from its manifest spec and
// compares sizes and contents with what is on disk.
func Verify(dir string) ([]Mismatch, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	var mismatches []Mismatch
	for _, c := range m.Cells {
		if want := m.Spec.CellSize(c.Row, c.Col); want != c.Bytes {
			mismatches = append(mismatches, Mismatch{
				Key:    c.Key(),
				Reason: fmt.Sprintf("manifest declares %d bytes, spec gives %d", c.Bytes, want),
			})
			continue
		}

		data, err := os.ReadFile(PayloadPath(dir, c.Row, c.Col))
		if err != nil {
			mismatches = append(mismatches, Mismatch{Key: c.Key(), Reason: err.Error()})
			continue
		}
		if len(data) != c.Bytes {
			mismatches = append(mismatches, Mismatch{
				Key:    c.Key(),
				Reason: fmt.Sprintf("payload has %d bytes, manifest declares %d", len(data), c.Bytes),
			})
			continue
		}
		if !bytes.Equal(data, Payload(m.Spec.Seed, c.Row, c.Col, c.Bytes)) {
			mismatches = append(mismatches, Mismatch{Key: c.Key(), Reason: "content differs"})
		}
	}

	return mismatches, nil
}
