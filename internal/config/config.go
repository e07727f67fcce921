// Package config loads hackid configuration from config.toml, an optional
// environment overlay, a .env file, and HACKID_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/hackid/pkg/database"
	"github.com/JaimeStill/hackid/pkg/github"
	"github.com/JaimeStill/hackid/pkg/oracle"
	"github.com/JaimeStill/hackid/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvHackidEnv             = "HACKID_ENV"
	EnvHackidShutdownTimeout = "HACKID_SHUTDOWN_TIMEOUT"
	EnvHackidVersion         = "HACKID_VERSION"
)

var databaseEnv = &database.Env{
	URL:             "HACKID_DB_URL",
	Host:            "HACKID_DB_HOST",
	Port:            "HACKID_DB_PORT",
	Name:            "HACKID_DB_NAME",
	User:            "HACKID_DB_USER",
	Password:        "HACKID_DB_PASSWORD",
	SSLMode:         "HACKID_DB_SSL_MODE",
	MaxOpenConns:    "HACKID_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "HACKID_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "HACKID_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "HACKID_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "HACKID_STORAGE_CONTAINER_NAME",
	ConnectionString: "HACKID_STORAGE_CONNECTION_STRING",
	AccountURL:       "HACKID_STORAGE_ACCOUNT_URL",
}

var githubEnv = &github.Env{
	Token:          "HACKID_GITHUB_TOKEN",
	BaseURL:        "HACKID_GITHUB_BASE_URL",
	Timeout:        "HACKID_GITHUB_TIMEOUT",
	MaxCommitPages: "HACKID_GITHUB_MAX_COMMIT_PAGES",
}

var oracleEnv = &oracle.Env{
	Provider:   "HACKID_ORACLE_PROVIDER",
	BaseURL:    "HACKID_ORACLE_BASE_URL",
	Model:      "HACKID_ORACLE_MODEL",
	Token:      "HACKID_ORACLE_TOKEN",
	Deployment: "HACKID_ORACLE_DEPLOYMENT",
	APIVersion: "HACKID_ORACLE_API_VERSION",
	AuthType:   "HACKID_ORACLE_AUTH_TYPE",
	Timeout:    "HACKID_ORACLE_TIMEOUT",
	Attempts:   "HACKID_ORACLE_ATTEMPTS",
	Backoff:    "HACKID_ORACLE_BACKOFF",
}

// Config is the root configuration for the hackid service and CLI.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	GitHub          github.Config    `toml:"github"`
	Oracle          oracle.Config    `toml:"oracle"`
	Logging         LoggingConfig    `toml:"logging"`
	Validation      ValidationConfig `toml:"validation"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the HACKID_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvHackidEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the service configuration rooted at config.toml in the working
// directory. Every section is finalized.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit base file. A missing base file is not an
// error; defaults and environment variables then supply every value.
func LoadFile(base string) (*Config, error) {
	cfg, err := read(base)
	if err != nil {
		return nil, err
	}
	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// LoadEngine reads the same sources as LoadFile but finalizes only the
// sections a standalone validation needs: github, oracle, logging, and
// validation. The CLI uses it so database and storage settings are optional.
// Overlays are merged after the files and before environment variables.
func LoadEngine(base string, overlays ...*Config) (*Config, error) {
	cfg, err := read(base)
	if err != nil {
		return nil, err
	}
	for _, o := range overlays {
		cfg.Merge(o)
	}
	if err := cfg.finalizeEngine(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// LoadDatabase reads the same sources as LoadFile but finalizes only the
// database section. The migrate command uses it.
func LoadDatabase(base string) (*database.Config, error) {
	cfg, err := read(base)
	if err != nil {
		return nil, err
	}
	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("finalize config: database: %w", err)
	}
	return &cfg.Database, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.GitHub.Merge(&overlay.GitHub)
	c.Oracle.Merge(&overlay.Oracle)
	c.Logging.Merge(&overlay.Logging)
	c.Validation.Merge(&overlay.Validation)
}

func read(base string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}
	return cfg, nil
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return c.finalizeEngine()
}

func (c *Config) finalizeEngine() error {
	if err := c.GitHub.Finalize(githubEnv); err != nil {
		return fmt.Errorf("github: %w", err)
	}
	if err := c.Oracle.Finalize(oracleEnv); err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Validation.Finalize(); err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvHackidShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvHackidVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvHackidEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
