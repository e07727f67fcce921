package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/hackid/pkg/formatting"
)

const (
	EnvValidationSemanticLimit    = "HACKID_VALIDATION_SEMANTIC_LIMIT"
	EnvValidationSnippetSize      = "HACKID_VALIDATION_SNIPPET_SIZE"
	EnvValidationSourceSize       = "HACKID_VALIDATION_SOURCE_SIZE"
	EnvValidationTimeout          = "HACKID_VALIDATION_TIMEOUT"
	EnvValidationLocation         = "HACKID_VALIDATION_LOCATION"
	EnvValidationBatchInterval    = "HACKID_VALIDATION_BATCH_INTERVAL"
	EnvValidationBatchConcurrency = "HACKID_VALIDATION_BATCH_CONCURRENCY"
)

// ValidationConfig bounds the cost of each run and paces batches.
// Sizes use byte notation ("1.5KB"); durations use Go syntax ("30s").
type ValidationConfig struct {
	SemanticLimit    int    `toml:"semantic_limit"`
	SnippetSize      string `toml:"snippet_size"`
	SourceSize       string `toml:"source_size"`
	Timeout          string `toml:"timeout"`
	Location         string `toml:"location"`
	BatchInterval    string `toml:"batch_interval"`
	BatchConcurrency int    `toml:"batch_concurrency"`
}

// SnippetBytes returns the per-snippet truncation size.
func (c *ValidationConfig) SnippetBytes() int {
	n, _ := formatting.ParseBytes(c.SnippetSize)
	return int(n)
}

// SourceBytes returns the truncation size of the source file sent for the
// core-logic check.
func (c *ValidationConfig) SourceBytes() int {
	n, _ := formatting.ParseBytes(c.SourceSize)
	return int(n)
}

// TimeoutDuration returns the per-run bound; zero means unbounded.
func (c *ValidationConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// BatchIntervalDuration returns the minimum spacing between batch starts.
func (c *ValidationConfig) BatchIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.BatchInterval)
	return d
}

// TimeLocation returns the location used for naive schedule timestamps.
func (c *ValidationConfig) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ValidationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ValidationConfig) Merge(overlay *ValidationConfig) {
	if overlay.SemanticLimit != 0 {
		c.SemanticLimit = overlay.SemanticLimit
	}
	if overlay.SnippetSize != "" {
		c.SnippetSize = overlay.SnippetSize
	}
	if overlay.SourceSize != "" {
		c.SourceSize = overlay.SourceSize
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Location != "" {
		c.Location = overlay.Location
	}
	if overlay.BatchInterval != "" {
		c.BatchInterval = overlay.BatchInterval
	}
	if overlay.BatchConcurrency != 0 {
		c.BatchConcurrency = overlay.BatchConcurrency
	}
}

func (c *ValidationConfig) loadDefaults() {
	if c.SemanticLimit == 0 {
		c.SemanticLimit = 5
	}
	if c.SnippetSize == "" {
		c.SnippetSize = "1500B"
	}
	if c.SourceSize == "" {
		c.SourceSize = "8000B"
	}
	if c.Timeout == "" {
		c.Timeout = "10m"
	}
	if c.Location == "" {
		c.Location = "UTC"
	}
	if c.BatchInterval == "" {
		c.BatchInterval = "30s"
	}
	if c.BatchConcurrency == 0 {
		c.BatchConcurrency = 1
	}
}

func (c *ValidationConfig) loadEnv() {
	if v := os.Getenv(EnvValidationSemanticLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SemanticLimit = n
		}
	}
	if v := os.Getenv(EnvValidationSnippetSize); v != "" {
		c.SnippetSize = v
	}
	if v := os.Getenv(EnvValidationSourceSize); v != "" {
		c.SourceSize = v
	}
	if v := os.Getenv(EnvValidationTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvValidationLocation); v != "" {
		c.Location = v
	}
	if v := os.Getenv(EnvValidationBatchInterval); v != "" {
		c.BatchInterval = v
	}
	if v := os.Getenv(EnvValidationBatchConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchConcurrency = n
		}
	}
}

func (c *ValidationConfig) validate() error {
	if c.SemanticLimit < 1 {
		return fmt.Errorf("semantic_limit must be positive")
	}
	for name, size := range map[string]string{"snippet_size": c.SnippetSize, "source_size": c.SourceSize} {
		n, err := formatting.ParseBytes(size)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if n < 1 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.BatchInterval); err != nil {
		return fmt.Errorf("invalid batch_interval: %w", err)
	}
	if _, err := time.LoadLocation(c.Location); err != nil {
		return fmt.Errorf("invalid location: %w", err)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be positive")
	}
	return nil
}
