package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ManifestFormat identifies the manifest schema.
	ManifestFormat = "ncdprime.matrix.v1"

	manifestFileName = "matrix.json"
	cellsDirName     = "cells"
	payloadFileName  = "payload.bin"
)

// Manifest records the spec and the full size plan of a generated corpus.
type Manifest struct {
	Format string     `json:"format"`
	Spec   MatrixSpec `json:"spec"`
	Cells  []Cell     `json:"cells"`
}

// ManifestPath returns the manifest location inside a corpus directory.
func ManifestPath(dir string) string {
	return filepath.Join(dir, manifestFileName)
}

func cellsDir(dir string) string {
	return filepath.Join(dir, cellsDirName)
}

func cellDir(dir string, row, col int) string {
	return filepath.Join(cellsDir(dir), CellKey(row, col))
}

// PayloadPath returns the payload file of a cell.
func PayloadPath(dir string, row, col int) string {
	return filepath.Join(cellDir(dir, row, col), payloadFileName)
}

// ReadManifest decodes the manifest of a corpus directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(ManifestPath(dir))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Format != ManifestFormat {
		return nil, fmt.Errorf("unsupported manifest format %q", m.Format)
	}
	return &m, nil
}

// writeManifest writes the manifest through a temp file and a rename so a
// present manifest always means a complete corpus.
func writeManifest(dir string, m *Manifest) error {
	filePath := ManifestPath(dir)
	tempPath := filePath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	// Atomic rename
	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return err
	}

	return nil
}
