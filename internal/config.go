// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/velikov/donefold/internal/models"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Journal   JournalConfig     `yaml:"journal"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
	ReadStats ReadStatsConfig   `yaml:"readstats"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Journal.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.ReadStats.Validate()
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

// JournalConfig holds the journal location and the parsing rule sets.
// Categories, ignored categories, and weekday names are configuration rather
// than process-wide constants so tests can run with alternate sets.
type JournalConfig struct {
	Path              string   `yaml:"path"`
	DoneFile          string   `yaml:"done_file"`
	Categories        []string `yaml:"categories"`
	IgnoredCategories []string `yaml:"ignored_categories"`
	Weekdays          []string `yaml:"weekdays"`
}

// Validate validates the journal configuration.
func (c *JournalConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.DoneFile, validation.Required),
	); err != nil {
		return err
	}
	if n := len(c.Weekdays); n != 0 && n != len(models.DefaultWeekdays) {
		return fmt.Errorf("journal: weekdays must list exactly %d names, got %d", len(models.DefaultWeekdays), n)
	}
	return nil
}

// Rules builds the parser/aggregator rule sets from the journal configuration.
func (c *JournalConfig) Rules() models.Rules {
	return models.NewRules(c.Categories, c.IgnoredCategories, c.Weekdays)
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

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// ReadStatsConfig holds the reading-list API settings for the readstats command.
type ReadStatsConfig struct {
	APIURL      string `yaml:"api_url"`
	ConsumerKey string `yaml:"consumer_key"`
	AccessToken string `yaml:"access_token"`
	PageSize    int    `yaml:"page_size"`
}

// Validate validates the reading-list configuration.
func (c *ReadStatsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIURL, validation.Required),
		validation.Field(&c.PageSize, validation.Min(0)),
	)
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
		Journal: JournalConfig{
			Path:              "./journal",
			DoneFile:          "Done Stuff.md",
			Categories:        []string{"Work", "Projects", "Gaming"},
			IgnoredCategories: []string{"Work"},
		},
		SQLite: SQLiteConfig{
			Path: "./donefold.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		ReadStats: ReadStatsConfig{
			APIURL:   "https://getpocket.com",
			PageSize: 300,
		},
	}
}
