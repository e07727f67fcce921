package github

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds GitHub REST API connection parameters.
type Config struct {
	Token          string `toml:"token"`
	BaseURL        string `toml:"base_url"`
	Timeout        string `toml:"timeout"`
	MaxCommitPages int    `toml:"max_commit_pages"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Token          string
	BaseURL        string
	Timeout        string
	MaxCommitPages string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
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
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxCommitPages != 0 {
		c.MaxCommitPages = overlay.MaxCommitPages
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.MaxCommitPages == 0 {
		c.MaxCommitPages = 10
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxCommitPages != "" {
		if v := os.Getenv(env.MaxCommitPages); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxCommitPages = n
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.MaxCommitPages < 1 {
		return fmt.Errorf("max_commit_pages must be positive")
	}
	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
	}
	return nil
}
