package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	slidemodel "github.com/VantageDataChat/GoSlideModel"
	"github.com/VantageDataChat/GoSlideModel/logging"
)

// Config is the complete slidemodel configuration. It can be loaded from
// slidemodel.yaml with SLIDEMODEL_* environment variable overrides.
type Config struct {
	Reader  ReaderConfig    `yaml:"reader" mapstructure:"reader"`
	Writer  WriterConfig    `yaml:"writer" mapstructure:"writer"`
	Logging logging.Options `yaml:"logging" mapstructure:"logging"`
}

// ReaderConfig bounds what extraction accepts from a container.
type ReaderConfig struct {
	MaxEntrySize int64 `yaml:"max_entry_size" mapstructure:"max_entry_size"` // bytes per part
	MaxTotalSize int64 `yaml:"max_total_size" mapstructure:"max_total_size"` // bytes across all parts
	MaxEntries   int   `yaml:"max_entries" mapstructure:"max_entries"`
}

// WriterConfig controls package generation.
type WriterConfig struct {
	Validate         bool   `yaml:"validate" mapstructure:"validate"`
	Thumbnail        bool   `yaml:"thumbnail" mapstructure:"thumbnail"`
	ThumbnailWidth   int    `yaml:"thumbnail_width" mapstructure:"thumbnail_width"`     // pixels
	SystemFonts      bool   `yaml:"system_fonts" mapstructure:"system_fonts"`           // TrueType thumbnail text
	PlaceholderColor string `yaml:"placeholder_color" mapstructure:"placeholder_color"` // RRGGBB
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	limits := slidemodel.DefaultLimits()
	return &Config{
		Reader: ReaderConfig{
			MaxEntrySize: limits.MaxEntrySize,
			MaxTotalSize: limits.MaxTotalSize,
			MaxEntries:   limits.MaxEntries,
		},
		Writer: WriterConfig{
			Validate:         true,
			Thumbnail:        false,
			ThumbnailWidth:   256,
			PlaceholderColor: "D9D9D9",
		},
		Logging: logging.Options{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ReadOptions converts the reader section to extraction options.
func (c *Config) ReadOptions() []slidemodel.ReadOption {
	return []slidemodel.ReadOption{
		slidemodel.WithLimits(slidemodel.Limits{
			MaxEntrySize: c.Reader.MaxEntrySize,
			MaxTotalSize: c.Reader.MaxTotalSize,
			MaxEntries:   c.Reader.MaxEntries,
		}),
	}
}

// WriteOptions converts the writer section to generation options.
func (c *Config) WriteOptions() []slidemodel.WriteOption {
	opts := []slidemodel.WriteOption{
		slidemodel.WithValidation(c.Writer.Validate),
		slidemodel.WithPlaceholderColor(c.Writer.PlaceholderColor),
	}
	if c.Writer.Thumbnail {
		opts = append(opts, slidemodel.WithThumbnail(c.Writer.ThumbnailWidth))
		if c.Writer.SystemFonts {
			opts = append(opts, slidemodel.WithThumbnailFonts(slidemodel.SystemFontCache()))
		}
	}
	return opts
}

// WriteDefault writes the default configuration as YAML to path, creating
// the parent directory when needed.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
