package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ApiKey      string `toml:"api_key"`
	Model       string `toml:"model"`
	Timeout     string `toml:"timeout"`
	MaxAttempts int    `toml:"max_attempts"`
}

type Env struct {
	ApiKey      string
	Model       string
	Timeout     string
	MaxAttempts string
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

func (c *Config) Merge(from *Config) {
	if from == nil {
		return
	}

	if from.ApiKey != "" {
		c.ApiKey = from.ApiKey
	}

	if from.Model != "" {
		c.Model = from.Model
	}

	if from.Timeout != "" {
		c.Timeout = from.Timeout
	}

	if from.MaxAttempts > 0 {
		c.MaxAttempts = from.MaxAttempts
	}
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}

	if c.Timeout == "" {
		c.Timeout = "30s"
	}

	if c.MaxAttempts == 0 {
		c.MaxAttempts = 2
	}
}

func (c *Config) loadEnv(env *Env) error {
	if v := os.Getenv(env.ApiKey); v != "" {
		c.ApiKey = v
	}

	if v := os.Getenv(env.Model); v != "" {
		c.Model = v
	}

	if v := os.Getenv(env.Timeout); v != "" {
		c.Timeout = v
	}

	if v := os.Getenv(env.MaxAttempts); v != "" {
		attempts, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.MaxAttempts, err)
		}
		c.MaxAttempts = attempts
	}

	return nil
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid llm timeout %q: %w", c.Timeout, err)
	}

	if c.MaxAttempts < 1 {
		return fmt.Errorf("llm max_attempts must be at least 1")
	}

	return nil
}
