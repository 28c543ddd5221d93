package internal

import (
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Guide    GuideConfig       `yaml:"guide"`
	API      APIConfig         `yaml:"api"`
	Manifest ManifestConfig    `yaml:"manifest"`
	Watch    WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Guide.Validate(); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Manifest.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// GuideConfig describes the documentation repository and the metadata
// stamped onto generated records.
type GuideConfig struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	SourceURL string `yaml:"source_url"`
	// Marker is the heading where the root guide content starts.
	Marker string `yaml:"marker"`
	// GuidesDir is relative to the directory holding the root document.
	GuidesDir string `yaml:"guides_dir"`
}

// Validate validates the guide configuration.
func (c *GuideConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Version, validation.Required),
		validation.Field(&c.SourceURL, validation.Required, is.URL),
		validation.Field(&c.Marker, validation.Required),
		validation.Field(&c.GuidesDir, validation.Required, validation.By(relativePath)),
	)
}

// APIConfig holds the layout of the generated JSON API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	c.BaseURL = strings.Trim(c.BaseURL, "/")
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(relativePath)),
	)
}

// ManifestConfig locates the manifest template.
type ManifestConfig struct {
	// Template is relative to the directory holding the root document.
	Template string `yaml:"template"`
}

// Validate validates the manifest configuration.
func (c *ManifestConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Template, validation.Required, validation.By(relativePath)),
	)
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

func relativePath(value any) error {
	s, _ := value.(string)
	if strings.HasPrefix(s, "/") || strings.Contains(s, "..") {
		return validation.NewError("validation_relative_path", "must be a relative path inside the repository")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Guide: GuideConfig{
			Name:      "AI Developer Guide",
			Version:   "0.1.0",
			SourceURL: "https://github.com/dwmkerr/ai-developer-guide",
			Marker:    "## The Golden Rules",
			GuidesDir: "docs/guides",
		},
		API: APIConfig{
			BaseURL: "api/guides",
		},
		Manifest: ManifestConfig{
			Template: "mcp/manifest.template.json",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}
