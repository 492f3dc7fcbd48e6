package sessions

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds session store settings.
type Config struct {
	// Backend selects the store implementation: "redis" or "memory".
	Backend   string `toml:"backend"`
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	TTL       string `toml:"ttl"`
	KeyPrefix string `toml:"key_prefix"`
	// MaxHistoryTurns bounds the conversation history kept per session.
	MaxHistoryTurns int `toml:"max_history_turns"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Backend  string
	Addr     string
	Password string
	DB       string
	TTL      string
}

// TTLDuration returns TTL as a time.Duration.
func (c *Config) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.KeyPrefix != "" {
		c.KeyPrefix = overlay.KeyPrefix
	}
	if overlay.MaxHistoryTurns != 0 {
		c.MaxHistoryTurns = overlay.MaxHistoryTurns
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = "redis"
	}
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.TTL == "" {
		c.TTL = "12h"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "sucre:session:"
	}
	if c.MaxHistoryTurns == 0 {
		c.MaxHistoryTurns = 40
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = v
		}
	}
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if v := os.Getenv(env.DB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.DB = n
			}
		}
	}
	if env.TTL != "" {
		if v := os.Getenv(env.TTL); v != "" {
			c.TTL = v
		}
	}
}

func (c *Config) validate() error {
	if c.Backend != "redis" && c.Backend != "memory" {
		return fmt.Errorf("backend must be redis or memory, got %q", c.Backend)
	}
	if _, err := time.ParseDuration(c.TTL); err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if c.MaxHistoryTurns < 1 {
		return fmt.Errorf("max_history_turns must be positive")
	}
	return nil
}
