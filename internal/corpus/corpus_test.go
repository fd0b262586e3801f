package corpus

import (
	"bytes"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCells_Count(t *testing.T) {
	tests := []struct {
		rows, cols int
		expected   int
	}{
		{1, 1, 1},
		{2, 3, 6},
		{8, 8, 64},
		{0, 5, 0},
		{5, 0, 0},
		{-1, 3, 0},
	}

	for _, tt := range tests {
		spec := MatrixSpec{Rows: tt.rows, Cols: tt.cols, MinBytes: 1, MaxBytes: 10}
		if got := len(spec.Cells()); got != tt.expected {
			t.Errorf("%dx%d: expected %d cells, got %d", tt.rows, tt.cols, tt.expected, got)
		}
	}
}

func TestCells_RowMajorOrder(t *testing.T) {
	cells := MatrixSpec{Rows: 2, Cols: 2, MinBytes: 0, MaxBytes: 2}.Cells()

	expected := []Cell{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 2}}
	for i, c := range expected {
		if cells[i] != c {
			t.Errorf("cell %d: expected %+v, got %+v", i, c, cells[i])
		}
	}
}

func TestCellSize_Patterns(t *testing.T) {
	tests := []struct {
		name     string
		spec     MatrixSpec
		row, col int
		expected int
	}{
		{"constant", MatrixSpec{Rows: 3, Cols: 3, MinBytes: 10, MaxBytes: 100, Pattern: PatternConstant}, 2, 2, 10},
		{"row first", MatrixSpec{Rows: 3, Cols: 3, MinBytes: 10, MaxBytes: 100, Pattern: PatternRow}, 0, 2, 10},
		{"row last", MatrixSpec{Rows: 3, Cols: 3, MinBytes: 10, MaxBytes: 100, Pattern: PatternRow}, 2, 0, 100},
		{"row single", MatrixSpec{Rows: 1, Cols: 3, MinBytes: 10, MaxBytes: 100, Pattern: PatternRow}, 0, 2, 10},
		{"col last", MatrixSpec{Rows: 3, Cols: 3, MinBytes: 10, MaxBytes: 100, Pattern: PatternCol}, 0, 2, 100},
		{"col single", MatrixSpec{Rows: 3, Cols: 1, MinBytes: 10, MaxBytes: 100, Pattern: PatternCol}, 2, 0, 10},
		{"gradient middle", MatrixSpec{Rows: 3, Cols: 3, MinBytes: 0, MaxBytes: 100, Pattern: PatternGradient}, 1, 1, 50},
		{"gradient corner", MatrixSpec{Rows: 3, Cols: 3, MinBytes: 0, MaxBytes: 100, Pattern: PatternGradient}, 2, 2, 100},
		{"gradient 1x1", MatrixSpec{Rows: 1, Cols: 1, MinBytes: 7, MaxBytes: 100}, 0, 0, 7},
		{"unknown pattern", MatrixSpec{Rows: 3, Cols: 3, MinBytes: 0, MaxBytes: 100, Pattern: "spiral"}, 1, 1, 50},
		{"col end", MatrixSpec{Rows: 1, Cols: 2, MinBytes: 0, MaxBytes: 5, Pattern: PatternCol}, 0, 1, 5},
		{"inverted clamps", MatrixSpec{Rows: 1, Cols: 2, MinBytes: 10, MaxBytes: -20, Pattern: PatternCol}, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.CellSize(tt.row, tt.col); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestCellSize_BankersRounding(t *testing.T) {
	// lerp(0, 5, 0.5) = 2.5 rounds to 2; lerp(0, 7, 0.5) = 3.5 rounds to 4.
	spec := MatrixSpec{Rows: 1, Cols: 3, MinBytes: 0, MaxBytes: 5, Pattern: PatternCol}
	if got := spec.CellSize(0, 1); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	spec.MaxBytes = 7
	if got := spec.CellSize(0, 1); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
}

func TestPayload_KnownVectors(t *testing.T) {
	got := hex.EncodeToString(Payload(123, 0, 0, 8))
	if got != "2ebcc77c630fcd50" {
		t.Errorf("unexpected first block prefix %s", got)
	}

	// Second block starts at byte 32.
	got = hex.EncodeToString(Payload(0, 1, 2, 40)[32:36])
	if got != "da7759a8" {
		t.Errorf("unexpected second block prefix %s", got)
	}
}

func TestPayload_LengthAndDeterminism(t *testing.T) {
	for _, n := range []int{0, 1, 31, 32, 33, 1000} {
		a := Payload(42, 3, 4, n)
		b := Payload(42, 3, 4, n)
		if len(a) != n {
			t.Errorf("n=%d: got %d bytes", n, len(a))
		}
		if !bytes.Equal(a, b) {
			t.Errorf("n=%d: payload not deterministic", n)
		}
	}

	if bytes.Equal(Payload(1, 0, 0, 64), Payload(2, 0, 0, 64)) {
		t.Error("different seeds should differ")
	}
	if bytes.Equal(Payload(1, 0, 1, 64), Payload(1, 1, 0, 64)) {
		t.Error("different cells should differ")
	}
	// Truncation keeps a common prefix.
	if !bytes.Equal(Payload(5, 1, 1, 100)[:40], Payload(5, 1, 1, 40)) {
		t.Error("shorter payload must be a prefix of a longer one")
	}
}

func TestGenerate_WritesPayloadsAndManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "matrix")
	spec := MatrixSpec{Rows: 3, Cols: 4, MinBytes: 16, MaxBytes: 300, Seed: 9}

	plan, err := NewGenerator(testLogger()).Generate(dir, spec, GenerateOptions{})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(plan.Cells) != 12 {
		t.Fatalf("expected 12 cells, got %d", len(plan.Cells))
	}

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	if m.Format != ManifestFormat {
		t.Errorf("unexpected format %s", m.Format)
	}
	if m.Spec != spec {
		t.Errorf("expected spec %+v, got %+v", spec, m.Spec)
	}
	if len(m.Cells) != 12 {
		t.Fatalf("expected 12 manifest cells, got %d", len(m.Cells))
	}

	for _, c := range m.Cells {
		info, err := os.Stat(PayloadPath(dir, c.Row, c.Col))
		if err != nil {
			t.Fatalf("missing payload for %s: %v", c.Key(), err)
		}
		if info.Size() != int64(c.Bytes) {
			t.Errorf("%s: manifest says %d bytes, file has %d", c.Key(), c.Bytes, info.Size())
		}
	}

	if _, err := os.Stat(ManifestPath(dir) + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp manifest left behind")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	base := t.TempDir()
	spec := MatrixSpec{Rows: 2, Cols: 3, MinBytes: 10, MaxBytes: 500, Seed: 77, Pattern: PatternRow}
	gen := NewGenerator(testLogger())

	a := filepath.Join(base, "a")
	b := filepath.Join(base, "b")
	if _, err := gen.Generate(a, spec, GenerateOptions{}); err != nil {
		t.Fatalf("generate a: %v", err)
	}
	if _, err := gen.Generate(b, spec, GenerateOptions{}); err != nil {
		t.Fatalf("generate b: %v", err)
	}

	for _, c := range spec.Cells() {
		da, _ := os.ReadFile(PayloadPath(a, c.Row, c.Col))
		db, _ := os.ReadFile(PayloadPath(b, c.Row, c.Col))
		if !bytes.Equal(da, db) {
			t.Errorf("%s differs between runs", c.Key())
		}
	}
}

func TestGenerate_ExistingWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, err := NewGenerator(testLogger()).Generate(dir, MatrixSpec{Rows: 1, Cols: 1, MaxBytes: 4}, GenerateOptions{})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGenerate_DryRunHasNoSideEffects(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "matrix")

	plan, err := NewGenerator(testLogger()).Generate(dir, MatrixSpec{Rows: 4, Cols: 4, MinBytes: 1, MaxBytes: 9}, GenerateOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if len(plan.Cells) != 16 {
		t.Errorf("expected 16 planned cells, got %d", len(plan.Cells))
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("dry run must not create the output directory")
	}
}

func TestGenerate_DryRunOverwriteKeepsExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "matrix")
	gen := NewGenerator(testLogger())
	spec := MatrixSpec{Rows: 1, Cols: 2, MinBytes: 5, MaxBytes: 5}

	if _, err := gen.Generate(dir, spec, GenerateOptions{}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := gen.Generate(dir, spec, GenerateOptions{Overwrite: true, DryRun: true}); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if _, err := os.Stat(ManifestPath(dir)); err != nil {
		t.Error("dry run must not delete the existing manifest")
	}
}

func TestGenerate_OverwriteRemovesOnlyKnownPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "matrix")
	gen := NewGenerator(testLogger())

	big := MatrixSpec{Rows: 3, Cols: 3, MinBytes: 8, MaxBytes: 64, Seed: 1}
	if _, err := gen.Generate(dir, big, GenerateOptions{}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	foreign := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(foreign, []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}
	foreignInCell := filepath.Join(dir, "cells", "r002_c002", "extra.bin")
	if err := os.WriteFile(foreignInCell, []byte("keep me too"), 0644); err != nil {
		t.Fatal(err)
	}

	small := MatrixSpec{Rows: 1, Cols: 2, MinBytes: 4, MaxBytes: 4, Seed: 2}
	if _, err := gen.Generate(dir, small, GenerateOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	if _, err := os.Stat(foreign); err != nil {
		t.Error("foreign top-level file was removed")
	}
	if _, err := os.Stat(foreignInCell); err != nil {
		t.Error("foreign file inside a cell dir was removed")
	}
	if _, err := os.Stat(PayloadPath(dir, 2, 2)); !os.IsNotExist(err) {
		t.Error("stale payload from the previous plan survived")
	}
	if _, err := os.Stat(cellDir(dir, 1, 1)); !os.IsNotExist(err) {
		t.Error("empty stale cell directory survived")
	}

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	if m.Spec != small || len(m.Cells) != 2 {
		t.Errorf("manifest not replaced: %+v", m.Spec)
	}
}

func TestGenerate_EmptyGrid(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "matrix")

	plan, err := NewGenerator(testLogger()).Generate(dir, MatrixSpec{Rows: 0, Cols: 3}, GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Cells) != 0 {
		t.Errorf("expected no cells, got %d", len(plan.Cells))
	}

	if _, err := Load(dir); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestLoad_FromManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "matrix")
	spec := MatrixSpec{Rows: 2, Cols: 2, MinBytes: 10, MaxBytes: 10, Seed: 123}
	if _, err := NewGenerator(testLogger()).Generate(dir, spec, GenerateOptions{}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	items, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	expected := []string{"r000_c000", "r000_c001", "r001_c000", "r001_c001"}
	if len(items) != len(expected) {
		t.Fatalf("expected %d items, got %d", len(expected), len(items))
	}
	for i, key := range expected {
		if items[i].Key != key {
			t.Errorf("item %d: expected %s, got %s", i, key, items[i].Key)
		}
		data, err := ReadPayload(items[i], 0)
		if err != nil {
			t.Fatalf("read %s: %v", key, err)
		}
		if len(data) != 10 {
			t.Errorf("%s: expected 10 bytes, got %d", key, len(data))
		}
	}
}

func TestLoad_ScansWithoutManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "matrix")
	spec := MatrixSpec{Rows: 1, Cols: 3, MinBytes: 4, MaxBytes: 4}
	if _, err := NewGenerator(testLogger()).Generate(dir, spec, GenerateOptions{}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if err := os.Remove(ManifestPath(dir)); err != nil {
		t.Fatal(err)
	}

	items, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(items) != 3 || items[0].Key != "r000_c000" || items[2].Key != "r000_c002" {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestLoad_EmptyDirectory(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestReadPayload_Truncates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "matrix")
	if _, err := NewGenerator(testLogger()).Generate(dir, MatrixSpec{Rows: 1, Cols: 1, MinBytes: 100, MaxBytes: 100}, GenerateOptions{}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	items, _ := Load(dir)

	data, err := ReadPayload(items[0], 25)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) != 25 {
		t.Errorf("expected 25 bytes, got %d", len(data))
	}
	if !bytes.Equal(data, Payload(0, 0, 0, 25)) {
		t.Error("truncated payload should be the prefix")
	}
}

func TestVerify(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "matrix")
	if _, err := NewGenerator(testLogger()).Generate(dir, MatrixSpec{Rows: 2, Cols: 2, MinBytes: 8, MaxBytes: 40, Seed: 3}, GenerateOptions{}); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	mismatches, err := Verify(dir)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(mismatches) != 0 {
		t.Fatalf("expected clean corpus, got %+v", mismatches)
	}

	// Flip one byte without changing the size.
	p := PayloadPath(dir, 1, 1)
	data, _ := os.ReadFile(p)
	data[0] ^= 0xff
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}

	mismatches, err = Verify(dir)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(mismatches) != 1 || mismatches[0].Key != "r001_c001" {
		t.Errorf("expected one mismatch at r001_c001, got %+v", mismatches)
	}
}
