package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("NCD_COMPRESSOR", "zstd")
	t.Setenv("NCD_WORKERS", "4")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single", "compressor: ${NCD_COMPRESSOR}", "compressor: zstd"},
		{"multiple", "compressor: ${NCD_COMPRESSOR}\nworkers: ${NCD_WORKERS}", "compressor: zstd\nworkers: 4"},
		{"unset left alone", "out: ${NCD_UNSET_VARIABLE}", "out: ${NCD_UNSET_VARIABLE}"},
		{"plain", "pairs: upper", "pairs: upper"},
		{"fallback when unset", "pairs: ${NCD_UNSET_PAIRS:-all}", "pairs: all"},
		{"set beats fallback", "compressor: ${NCD_COMPRESSOR:-gzip}", "compressor: zstd"},
		{"empty fallback", "out: \"${NCD_UNSET_OUT:-}\"", "out: \"\""},
		{"not a name", "x: ${1BAD}", "x: ${1BAD}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := substituteEnvVars([]byte(tt.input))
			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLoadWithEnvFallback(t *testing.T) {
	content := "[run]\nworkers = ${NCD_UNSET_WORKERS:-3}\n"
	configPath := filepath.Join(t.TempDir(), "ncdprime.toml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Run.Workers != 3 {
		t.Errorf("expected fallback workers 3, got %d", cfg.Run.Workers)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("NCD_RESULTS", "/tmp/ncd-results.jsonl")

	content := `
run:
  out: "${NCD_RESULTS}"
`
	configPath := filepath.Join(t.TempDir(), "ncdprime.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Run.Out != "/tmp/ncd-results.jsonl" {
		t.Errorf("expected substituted out path, got %s", cfg.Run.Out)
	}
}
