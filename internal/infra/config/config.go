// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Library  LibraryConfig           `yaml:"library"`
	Upload   UploadConfig            `yaml:"upload"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Messages MessagesConfig          `yaml:"messages"`
	Log      LogConfig               `yaml:"log"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr           string      `yaml:"addr" default:":8080"`
	AllowedOrigins []string    `yaml:"allowed_origins" default:"[\"https://*\",\"http://*\"]"`
	Hooks          HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// LibraryConfig represents the playlists loaded at startup.
type LibraryConfig struct {
	Demo           bool         `yaml:"demo"`
	DefaultSortKey string       `yaml:"default_sort_key" default:"name" validate:"oneof=name artist duration genre"`
	Seeds          []SeedConfig `yaml:"seeds" validate:"dive"`
}

// SeedConfig represents a CSV file loaded into a playlist at startup.
type SeedConfig struct {
	Playlist string `yaml:"playlist" validate:"required"`
	Path     string `yaml:"path" validate:"required"`
}

// UploadConfig represents the values given to songs created from uploads.
type UploadConfig struct {
	DefaultArtist   string `yaml:"default_artist" default:"Unknown"`
	DefaultGenre    string `yaml:"default_genre" default:"N/A"`
	DefaultDuration string `yaml:"default_duration" default:"03:00"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	Success               string `yaml:"success" default:"OK"`
	DefaultError          string `yaml:"default_error" default:"Something went wrong"`
	PlaylistNotFound      string `yaml:"playlist_not_found" default:"Playlist not found"`
	EmptyName             string `yaml:"empty_name" default:"Name is empty"`
	NoSongs               string `yaml:"no_songs" default:"No songs"`
	InvalidIndex          string `yaml:"invalid_index" default:"Invalid index"`
	InvalidFile           string `yaml:"invalid_file" default:"Invalid file"`
	DuplicateSong         string `yaml:"duplicate_song" default:"Song is already in the playlist"`
	DurationLimitExceeded string `yaml:"duration_limit_exceeded" default:"Song duration is outside the allowed range"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Output     string `yaml:"output" default:"stdout"`
	MaxSizeMB  int    `yaml:"max_size_mb" default:"10" validate:"gte=1"`
	MaxBackups int    `yaml:"max_backups" default:"3" validate:"gte=0"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return Parse(data)
}

// Parse parses configuration from YAML data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.overrideFromEnv()
	// defaults only fail on malformed tags
	_ = defaults.Set(&cfg)
	return &cfg
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("RINGPLAY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RINGPLAY_DEFAULT_SORT"); v != "" {
		c.Library.DefaultSortKey = v
	}
	if v := os.Getenv("RINGPLAY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "success":
		return c.Messages.Success
	case "playlist_not_found":
		return c.Messages.PlaylistNotFound
	case "empty_name":
		return c.Messages.EmptyName
	case "no_songs":
		return c.Messages.NoSongs
	case "invalid_index":
		return c.Messages.InvalidIndex
	case "invalid_file":
		return c.Messages.InvalidFile
	case "duplicate_song":
		return c.Messages.DuplicateSong
	case "duration_limit_exceeded":
		return c.Messages.DurationLimitExceeded
	default:
		return c.Messages.DefaultError
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	seen := make(map[string]bool)
	for _, s := range c.Library.Seeds {
		if seen[s.Path] {
			return errors.Newf("seed file %s is listed more than once", s.Path)
		}
		seen[s.Path] = true
	}

	return nil
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// GetFilterSettings returns the settings for a filter.
func (c *Config) GetFilterSettings(filterName string) map[string]any {
	if f, ok := c.Filters[filterName]; ok {
		return f.Settings
	}
	return nil
}
