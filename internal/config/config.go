package config

import "github.com/haskel/ncdprime/internal/corpus"

type Config struct {
	GenMatrix GenMatrixConfig `yaml:"gen_matrix" toml:"gen_matrix" json:"gen_matrix"`
	Run       RunConfig       `yaml:"run" toml:"run" json:"run"`
	Estimator EstimatorConfig `yaml:"estimator" toml:"estimator" json:"estimator"`
	Server    ServerConfig    `yaml:"server" toml:"server" json:"server"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth" json:"auth"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging" json:"logging"`
}

// GenMatrixConfig holds the defaults for `gen matrix`.
type GenMatrixConfig struct {
	Rows     int    `yaml:"rows" toml:"rows" json:"rows"`
	Cols     int    `yaml:"cols" toml:"cols" json:"cols"`
	MinBytes int    `yaml:"min_bytes" toml:"min_bytes" json:"min_bytes"`
	MaxBytes int    `yaml:"max_bytes" toml:"max_bytes" json:"max_bytes"`
	Seed     int64  `yaml:"seed" toml:"seed" json:"seed"`
	Pattern  string `yaml:"pattern" toml:"pattern" json:"pattern"`
}

// MatrixSpec converts the section into a generator spec.
func (g GenMatrixConfig) MatrixSpec() corpus.MatrixSpec {
	return corpus.MatrixSpec{
		Rows:     g.Rows,
		Cols:     g.Cols,
		MinBytes: g.MinBytes,
		MaxBytes: g.MaxBytes,
		Seed:     g.Seed,
		Pattern:  corpus.Pattern(g.Pattern),
	}
}

// RunConfig holds the defaults for `run matrix`.
type RunConfig struct {
	Compressor string `yaml:"compressor" toml:"compressor" json:"compressor"`
	// Level is passed to the compressor factory; 0 selects its default.
	Level        int    `yaml:"level" toml:"level" json:"level"`
	Pairs        string `yaml:"pairs" toml:"pairs" json:"pairs"`
	MaxItemBytes int    `yaml:"max_item_bytes" toml:"max_item_bytes" json:"max_item_bytes"`
	Workers      int    `yaml:"workers" toml:"workers" json:"workers"`
	Out          string `yaml:"out" toml:"out" json:"out"`
	ETA          bool   `yaml:"eta" toml:"eta" json:"eta"`
	Progress     bool   `yaml:"progress" toml:"progress" json:"progress"`
}

type EstimatorConfig struct {
	RefitFirstN int `yaml:"refit_first_n" toml:"refit_first_n" json:"refit_first_n"`
}

type ServerConfig struct {
	Host         string          `yaml:"host" toml:"host" json:"host"`
	Port         int             `yaml:"port" toml:"port" json:"port"`
	MaxBodyBytes int64           `yaml:"max_body_bytes" toml:"max_body_bytes" json:"max_body_bytes"`
	RateLimit    RateLimitConfig `yaml:"rate_limit" toml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// Enabled turns on rate limiting.
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	// RequestsPerSecond is the rate limit (requests per second).
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second" json:"requests_per_second"`
	// Burst is the maximum burst size.
	Burst int `yaml:"burst" toml:"burst" json:"burst"`
}

type AuthConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled" json:"enabled"`
	User     string `yaml:"user" toml:"user" json:"user"`
	Password string `yaml:"password" toml:"password" json:"password"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" json:"level"`
	Format string `yaml:"format" toml:"format" json:"format"`
}
