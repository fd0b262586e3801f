package config

func Default() *Config {
	return &Config{
		GenMatrix: GenMatrixConfig{
			Rows:     8,
			Cols:     8,
			MinBytes: 512,
			MaxBytes: 8192,
			Seed:     0,
			Pattern:  "gradient",
		},
		Run: RunConfig{
			Compressor:   "gzip",
			Level:        0,
			Pairs:        "upper",
			MaxItemBytes: 0,
			Workers:      1,
			Out:          "results.jsonl",
			ETA:          true,
			Progress:     true,
		},
		Estimator: EstimatorConfig{
			RefitFirstN: 6,
		},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			MaxBodyBytes: 8 << 20,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 20,
				Burst:             40,
			},
		},
		Auth: AuthConfig{
			Enabled:  false,
			User:     "",
			Password: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
