package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names.
const (
	EnvMaxFileBytes = "MARKITDOWN_MAX_FILE_BYTES"
	EnvListenAddr   = "MARKITDOWN_LISTEN_ADDR"

	EnvDescribeURL         = "MARKITDOWN_DESCRIBE_URL"
	EnvDescribeModel       = "MARKITDOWN_DESCRIBE_MODEL"
	EnvDescribePrompt      = "MARKITDOWN_DESCRIBE_PROMPT"
	EnvDescribeMaxTokens   = "MARKITDOWN_DESCRIBE_MAX_TOKENS"
	EnvDescribeTimeoutSecs = "MARKITDOWN_DESCRIBE_TIMEOUT_SECONDS"
	EnvDescribeWorkers     = "MARKITDOWN_DESCRIBE_WORKERS"
	EnvDescribeTemperature = "MARKITDOWN_DESCRIBE_TEMPERATURE"
	EnvDescribeSeed        = "MARKITDOWN_DESCRIBE_SEED"
)

// Defaults.
const (
	// DefaultMaxFileBytes is the default maximum accepted file size (50 MiB).
	DefaultMaxFileBytes int64 = 50 << 20

	DefaultListenAddr = ":8080"

	DefaultDescribePrompt    = "Describe this picture."
	DefaultDescribeMaxTokens = 300

	// DefaultDescribeWorkers keeps description calls sequential.
	DefaultDescribeWorkers = 1
)

// Describe holds the vision description service settings. An empty URL
// disables enrichment: conversions pass through unenriched.
type Describe struct {
	URL         string
	Model       string
	Prompt      string
	MaxTokens   int
	Timeout     time.Duration // zero means no request timeout
	Workers     int
	Temperature *float64
	Seed        *int
}

// Config holds runtime configuration sourced from environment variables.
type Config struct {
	MaxFileSizeBytes int64
	ListenAddr       string
	Describe         Describe
}

// MaxFileSizeMB returns the configured limit in whole megabytes.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSizeBytes >> 20
}

// Load reads Config from environment variables, falling back to defaults
// for missing or invalid values.
func Load() *Config {
	cfg := &Config{
		MaxFileSizeBytes: DefaultMaxFileBytes,
		ListenAddr:       DefaultListenAddr,
		Describe: Describe{
			URL:       os.Getenv(EnvDescribeURL),
			Model:     os.Getenv(EnvDescribeModel),
			Prompt:    DefaultDescribePrompt,
			MaxTokens: DefaultDescribeMaxTokens,
			Workers:   DefaultDescribeWorkers,
		},
	}

	if n, ok := envInt64(EnvMaxFileBytes); ok && n > 0 {
		cfg.MaxFileSizeBytes = n
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(EnvDescribePrompt); v != "" {
		cfg.Describe.Prompt = v
	}
	if n, ok := envInt64(EnvDescribeMaxTokens); ok && n > 0 {
		cfg.Describe.MaxTokens = int(n)
	}
	if n, ok := envInt64(EnvDescribeTimeoutSecs); ok && n > 0 {
		cfg.Describe.Timeout = time.Duration(n) * time.Second
	}
	if n, ok := envInt64(EnvDescribeWorkers); ok && n > 0 {
		cfg.Describe.Workers = int(n)
	}
	if v := os.Getenv(EnvDescribeTemperature); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Describe.Temperature = &f
		}
	}
	if n, ok := envInt64(EnvDescribeSeed); ok {
		seed := int(n)
		cfg.Describe.Seed = &seed
	}
	return cfg
}

func envInt64(name string) (int64, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
