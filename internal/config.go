package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/naudiz/internal/api"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
	Retention RetentionConfig   `yaml:"retention"`
	MCP       MCPConfig         `yaml:"mcp"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Retention.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds owner identity configuration.
//
// Mode controls how the owner id is resolved:
//   - "disabled" (default): owner id from the X-Naudiz-Owner header,
//     suitable only for local dev.
//   - "jwt": HS256 bearer tokens from the external identity provider;
//     Secret must be non-empty and the token subject is the owner id.
type AuthConfig struct {
	Mode   string `yaml:"mode"`
	Secret string `yaml:"secret"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = api.AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(api.AuthModeDisabled, api.AuthModeJWT)),
	); err != nil {
		return err
	}
	if c.Mode == api.AuthModeJWT && c.Secret == "" {
		return fmt.Errorf("auth: mode is %q but secret is empty", api.AuthModeJWT)
	}
	return nil
}

// RetentionConfig holds the trash retention window. Notes trashed longer
// than Days ago are permanently deleted by the sweeper; notes aged between
// WarnDays and Days get a one-time expiry warning.
type RetentionConfig struct {
	Days     int `yaml:"days"`
	WarnDays int `yaml:"warn_days"`
}

// Validate validates the retention configuration.
func (c *RetentionConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Days, validation.Required, validation.Min(1)),
		validation.Field(&c.WarnDays, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.WarnDays >= c.Days {
		return fmt.Errorf("retention: warn_days (%d) must be below days (%d)", c.WarnDays, c.Days)
	}
	return nil
}

// MCPConfig holds settings for the MCP stdio server, which always acts on
// behalf of a single configured owner.
type MCPConfig struct {
	Owner string `yaml:"owner"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./naudiz.db",
		},
		Auth: AuthConfig{
			Mode: api.AuthModeDisabled,
		},
		Retention: RetentionConfig{
			Days:     7,
			WarnDays: 6,
		},
		MCP: MCPConfig{
			Owner: "local",
		},
	}
}
