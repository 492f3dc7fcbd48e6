package registry

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
)

// Config holds registry refresh settings.
type Config struct {
	// RefreshSchedule is a cron expression controlling periodic snapshot
	// reloads from the database.
	RefreshSchedule string `toml:"refresh_schedule"`
}

// Env maps config fields to environment variable names.
type Env struct {
	RefreshSchedule string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.RefreshSchedule == "" {
		c.RefreshSchedule = "*/15 * * * *"
	}
	if env != nil && env.RefreshSchedule != "" {
		if v := os.Getenv(env.RefreshSchedule); v != "" {
			c.RefreshSchedule = v
		}
	}
	if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
		return fmt.Errorf("invalid refresh_schedule: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.RefreshSchedule != "" {
		c.RefreshSchedule = overlay.RefreshSchedule
	}
}
