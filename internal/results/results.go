// Package results reads and writes the JSONL stream produced by a matrix
// run, one object per completed pair.
package results

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Row is one results line. Field order is the on-disk key order.
type Row struct {
	A      string  `json:"a" csv:"a"`
	B      string  `json:"b" csv:"b"`
	ABytes int     `json:"a_bytes" csv:"a_bytes"`
	BBytes int     `json:"b_bytes" csv:"b_bytes"`
	CX     int64   `json:"c_x" csv:"c_x"`
	CY     int64   `json:"c_y" csv:"c_y"`
	CXY    int64   `json:"c_xy" csv:"c_xy"`
	NCD    float64 `json:"ncd" csv:"ncd"`
}

// Writer appends rows to a JSONL file, flushing after every row so a crash
// leaves every completed line on disk.
type Writer struct {
	file *os.File
	buf  *bufio.Writer
	enc  *json.Encoder
	rows int
}

// Create truncates or creates path, making parent directories as needed.
func Create(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	buf := bufio.NewWriter(f)
	return &Writer{file: f, buf: buf, enc: json.NewEncoder(buf)}, nil
}

func (w *Writer) Write(r Row) error {
	if err := w.enc.Encode(r); err != nil {
		return fmt.Errorf("encode row %s/%s: %w", r.A, r.B, err)
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows reports how many rows were written.
func (w *Writer) Rows() int {
	return w.rows
}

func (w *Writer) Close() error {
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// maxLineBytes bounds a single JSONL line when reading.
const maxLineBytes = 1 << 20

// Read decodes every non-blank line of a results stream.
func Read(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var rows []Row
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var row Row
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}

func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// WriteCSV writes rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	return gocsv.Marshal(rows, w)
}
