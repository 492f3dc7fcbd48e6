package config

import (
	"fmt"
	"os"

	"github.com/sucre-siip/sucre/pkg/middleware"
	"github.com/sucre-siip/sucre/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "SUCRE_CORS_ENABLED",
	Origins:          "SUCRE_CORS_ORIGINS",
	AllowedMethods:   "SUCRE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "SUCRE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "SUCRE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "SUCRE_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "SUCRE_AUTH_ENABLED",
	Issuer:   "SUCRE_AUTH_ISSUER",
	ClientID: "SUCRE_AUTH_CLIENT_ID",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "SUCRE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SUCRE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, auth, and pagination settings.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Auth       middleware.AuthConfig `toml:"auth"`
	Pagination pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and
// validation for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("SUCRE_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}
