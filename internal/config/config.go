// Package config loads and finalizes the root service configuration
// from config.toml, an optional per-environment overlay, and
// SUCRE_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sucre-siip/sucre/internal/artifacts"
	"github.com/sucre-siip/sucre/internal/llm"
	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/sessions"
	"github.com/sucre-siip/sucre/pkg/database"
	"github.com/sucre-siip/sucre/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvSucreEnv             = "SUCRE_ENV"
	EnvSucreShutdownTimeout = "SUCRE_SHUTDOWN_TIMEOUT"
	EnvSucreVersion         = "SUCRE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "SUCRE_DB_HOST",
	Port:            "SUCRE_DB_PORT",
	Name:            "SUCRE_DB_NAME",
	User:            "SUCRE_DB_USER",
	Password:        "SUCRE_DB_PASSWORD",
	SSLMode:         "SUCRE_DB_SSL_MODE",
	MaxOpenConns:    "SUCRE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SUCRE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SUCRE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SUCRE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "SUCRE_STORAGE_CONTAINER_NAME",
	ConnectionString: "SUCRE_STORAGE_CONNECTION_STRING",
	MaxListSize:      "SUCRE_STORAGE_MAX_LIST_SIZE",
}

var registryEnv = &registry.Env{
	RefreshSchedule: "SUCRE_REGISTRY_REFRESH_SCHEDULE",
}

var sessionsEnv = &sessions.Env{
	Backend:  "SUCRE_SESSIONS_BACKEND",
	Addr:     "SUCRE_SESSIONS_ADDR",
	Password: "SUCRE_SESSIONS_PASSWORD",
	DB:       "SUCRE_SESSIONS_DB",
	TTL:      "SUCRE_SESSIONS_TTL",
}

var llmEnv = &llm.Env{
	ApiKey:      "SUCRE_LLM_API_KEY",
	Model:       "SUCRE_LLM_MODEL",
	Timeout:     "SUCRE_LLM_TIMEOUT",
	MaxAttempts: "SUCRE_LLM_MAX_ATTEMPTS",
}

var artifactsEnv = &artifacts.Env{
	BaseUrl: "SUCRE_ARTIFACTS_BASE_URL",
}

// Config is the root configuration for the Sucre service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	Registry        registry.Config  `toml:"registry"`
	Sessions        sessions.Config  `toml:"sessions"`
	LLM             llm.Config       `toml:"llm"`
	Artifacts       artifacts.Config `toml:"artifacts"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the SUCRE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSucreEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment
// overlay, and finalizes all values. If no config.toml exists, defaults
// and environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
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

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
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
	c.Registry.Merge(&overlay.Registry)
	c.Sessions.Merge(&overlay.Sessions)
	c.LLM.Merge(&overlay.LLM)
	c.Artifacts.Merge(&overlay.Artifacts)
	c.API.Merge(&overlay.API)
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
	if err := c.Registry.Finalize(registryEnv); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	if err := c.Sessions.Finalize(sessionsEnv); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Artifacts.Finalize(artifactsEnv); err != nil {
		return fmt.Errorf("artifacts: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
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
	if v := os.Getenv(EnvSucreShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvSucreVersion); v != "" {
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
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvSucreEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
