package artifacts

import "os"

type Config struct {
	BaseUrl string `toml:"base_url"`
}

type Env struct {
	BaseUrl string
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

func (c *Config) Merge(from *Config) {
	if from == nil {
		return
	}

	if from.BaseUrl != "" {
		c.BaseUrl = from.BaseUrl
	}
}

func (c *Config) loadDefaults() {
	if c.BaseUrl == "" {
		c.BaseUrl = "/api/artifacts"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.BaseUrl); v != "" {
		c.BaseUrl = v
	}
}
