package internal

import (
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var indexNameRe = regexp.MustCompile(`^[^/\\]+\.md$`)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Watch   WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Content.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// ContentConfig locates the paper notes and the generated index document.
type ContentConfig struct {
	Dir        string `yaml:"dir"`
	Index      string `yaml:"index"`
	IndexTitle string `yaml:"index_title"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Index, validation.Required,
			validation.Match(indexNameRe).Error("must be a plain .md file name")),
		validation.Field(&c.IndexTitle, validation.Required),
	)
}

// CatalogConfig holds the optional SQLite catalog location. An empty path
// disables the catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Enabled returns true when a catalog path is configured.
func (c *CatalogConfig) Enabled() bool {
	return c.Path != ""
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Content: ContentConfig{
			Dir:        "content",
			Index:      "index.md",
			IndexTitle: "Hello",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}
