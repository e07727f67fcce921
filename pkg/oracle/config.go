package oracle

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"
)

// Supported providers. ProviderNone disables the oracle.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderAzure  = "azure"
)

var providers = []string{ProviderNone, ProviderOpenAI, ProviderOllama, ProviderAzure}

// Config holds oracle provider and retry settings.
type Config struct {
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Token      string `toml:"token"`
	Deployment string `toml:"deployment"`
	APIVersion string `toml:"api_version"`
	AuthType   string `toml:"auth_type"`
	Timeout    string `toml:"timeout"`
	Attempts   int    `toml:"attempts"`
	Backoff    string `toml:"backoff"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider   string
	BaseURL    string
	Model      string
	Token      string
	Deployment string
	APIVersion string
	AuthType   string
	Timeout    string
	Attempts   string
	Backoff    string
}

// Enabled reports whether a provider is configured.
func (c *Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// BackoffDuration returns Backoff as a time.Duration.
func (c *Config) BackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.Backoff)
	return d
}

// Retry returns the Backoff policy described by the config.
func (c *Config) Retry() Backoff {
	return Backoff{Attempts: c.Attempts, Base: c.BackoffDuration()}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Deployment != "" {
		c.Deployment = overlay.Deployment
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.AuthType != "" {
		c.AuthType = overlay.AuthType
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Attempts != 0 {
		c.Attempts = overlay.Attempts
	}
	if overlay.Backoff != "" {
		c.Backoff = overlay.Backoff
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderNone
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.Attempts == 0 {
		c.Attempts = 3
	}
	if c.Backoff == "" {
		c.Backoff = "20s"
	}
}

func (c *Config) loadEnv(env *Env) {
	str := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	str(env.Provider, &c.Provider)
	str(env.BaseURL, &c.BaseURL)
	str(env.Model, &c.Model)
	str(env.Token, &c.Token)
	str(env.Deployment, &c.Deployment)
	str(env.APIVersion, &c.APIVersion)
	str(env.AuthType, &c.AuthType)
	str(env.Timeout, &c.Timeout)
	str(env.Backoff, &c.Backoff)

	if env.Attempts != "" {
		if v := os.Getenv(env.Attempts); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Attempts = n
			}
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}
	if c.Enabled() && c.Model == "" && c.Provider != ProviderAzure {
		return fmt.Errorf("model required for provider %s", c.Provider)
	}
	if c.Attempts < 1 || c.Attempts > 5 {
		return fmt.Errorf("attempts must be between 1 and 5")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Backoff); err != nil {
		return fmt.Errorf("invalid backoff: %w", err)
	}
	return nil
}
