package internal

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/suppai/internal/apiclient"
	"github.com/starford/suppai/internal/typeahead"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// OriginEnv names the environment variable holding the backend origin.
const OriginEnv = "SUPP_AI_API_ORIGIN"

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	API       APIConfig         `yaml:"api"`
	Site      SiteConfig        `yaml:"site"`
	Templates TemplatesConfig   `yaml:"templates"`
	Typeahead TypeaheadConfig   `yaml:"typeahead"`
	Meta      MetaConfig        `yaml:"meta"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.Templates.Validate(); err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	if err := c.Typeahead.Validate(); err != nil {
		return fmt.Errorf("typeahead: %w", err)
	}
	if err := c.Meta.Validate(); err != nil {
		return fmt.Errorf("meta: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText)),
	); err != nil {
		return err
	}
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

// APIConfig describes how the server reaches the backend.
//
// Proxy mounts the backend under /api on this server so browser code can use
// same-origin paths.
type APIConfig struct {
	Origin   string        `yaml:"origin"`
	ClientID string        `yaml:"client_id"`
	Timeout  time.Duration `yaml:"timeout"`
	Proxy    bool          `yaml:"proxy"`
}

// Validate validates the API configuration. An empty origin (for example
// an unset ${SUPP_AI_API_ORIGIN} in the file) falls back to the default.
func (c *APIConfig) Validate() error {
	c.Origin = apiclient.ResolveOrigin(apiclient.Server, c.Origin)
	if c.ClientID == "" {
		c.ClientID = apiclient.DefaultClientID
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Origin, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

// SiteConfig holds values rendered into every page.
type SiteConfig struct {
	CanonicalOrigin string `yaml:"canonical_origin"`
	Title           string `yaml:"title"`
	AnalyticsID     string `yaml:"analytics_id"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	c.CanonicalOrigin = strings.TrimRight(c.CanonicalOrigin, "/")
	return validation.ValidateStruct(c,
		validation.Field(&c.CanonicalOrigin, is.URL),
		validation.Field(&c.Title, validation.Required),
	)
}

// TemplatesConfig switches page templates from the embedded copy to a
// directory on disk, optionally re-parsed on change.
type TemplatesConfig struct {
	Dir    string `yaml:"dir"`
	Reload bool   `yaml:"reload"`
}

// Validate validates the templates configuration.
func (c *TemplatesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.When(c.Reload, validation.Required)),
	)
}

// TypeaheadConfig holds the websocket suggestion settings.
type TypeaheadConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the typeahead configuration.
func (c *TypeaheadConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(time.Millisecond)),
	)
}

// MetaConfig controls index metadata polling and its event stream.
type MetaConfig struct {
	PollInterval      time.Duration `yaml:"poll_interval"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// Validate validates the meta configuration.
func (c *MetaConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PollInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.BroadcastInterval, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
			HTTP: HTTPConfig{
				Port: 3000,
			},
		},
		API: APIConfig{
			Origin:   apiclient.ResolveOrigin(apiclient.Server, os.Getenv(OriginEnv)),
			ClientID: apiclient.DefaultClientID,
			Timeout:  10 * time.Second,
		},
		Site: SiteConfig{
			Title: "supp.ai",
		},
		Typeahead: TypeaheadConfig{
			Debounce: typeahead.DefaultDelay,
		},
		Meta: MetaConfig{
			PollInterval:      time.Minute,
			BroadcastInterval: 2 * time.Second,
		},
	}
}
