package runner

import (
	"encoding/json"
	"os"
	"time"

	"github.com/haskel/ncdprime/internal/estimator"
	"github.com/haskel/ncdprime/internal/monitor"
	"github.com/haskel/ncdprime/internal/ncd"
)

// MetaFormat identifies the run metadata schema.
const MetaFormat = "ncdprime.run.v1"

// Meta is written next to the results stream once a run completes.
type Meta struct {
	Format         string               `json:"format"`
	CorpusDir      string               `json:"corpus"`
	Compressor     string               `json:"compressor"`
	Pairs          ncd.Pairs            `json:"pairs"`
	MaxItemBytes   int                  `json:"max_item_bytes"`
	Workers        int                  `json:"workers"`
	Items          int                  `json:"items"`
	Jobs           int                  `json:"jobs"`
	Samples        int                  `json:"samples"`
	StartedAt      time.Time            `json:"started_at"`
	ElapsedSeconds float64              `json:"elapsed_s"`
	Fit            *estimator.FitResult `json:"fit"`
	Host           *monitor.Snapshot    `json:"host,omitempty"`
}

// MetaPath returns the sidecar path for a results file.
func MetaPath(outPath string) string {
	return outPath + ".meta.json"
}

// WriteMeta writes m through a temp file and a rename.
func WriteMeta(path string, m *Meta) error {
	tempPath := path + ".tmp"

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

	return os.Rename(tempPath, path)
}

// ReadMeta decodes a run metadata sidecar.
func ReadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
