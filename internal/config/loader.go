package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	file    string
}

// NewLoader creates a loader that looks for slidemodel.yaml in rootDir.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader for an explicit config file.
func NewFileLoader(file string) Loader {
	return &loader{file: file}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (SLIDEMODEL_*)
// 2. Config file (slidemodel.yaml or slidemodel.yml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName("slidemodel")
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	// Replace . with _ in env var names (e.g., SLIDEMODEL_WRITER_THUMBNAIL)
	v.SetEnvPrefix("SLIDEMODEL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Reader limits
	v.BindEnv("reader.max_entry_size")
	v.BindEnv("reader.max_total_size")
	v.BindEnv("reader.max_entries")

	// Writer
	v.BindEnv("writer.validate")
	v.BindEnv("writer.thumbnail")
	v.BindEnv("writer.thumbnail_width")
	v.BindEnv("writer.system_fonts")
	v.BindEnv("writer.placeholder_color")

	// Logging
	v.BindEnv("logging.level")
	v.BindEnv("logging.format")
	v.BindEnv("logging.add_source")
	v.BindEnv("logging.file")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine unless it was named explicitly.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.file != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("reader.max_entry_size", defaults.Reader.MaxEntrySize)
	v.SetDefault("reader.max_total_size", defaults.Reader.MaxTotalSize)
	v.SetDefault("reader.max_entries", defaults.Reader.MaxEntries)

	v.SetDefault("writer.validate", defaults.Writer.Validate)
	v.SetDefault("writer.thumbnail", defaults.Writer.Thumbnail)
	v.SetDefault("writer.thumbnail_width", defaults.Writer.ThumbnailWidth)
	v.SetDefault("writer.system_fonts", defaults.Writer.SystemFonts)
	v.SetDefault("writer.placeholder_color", defaults.Writer.PlaceholderColor)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.add_source", defaults.Logging.AddSource)
	v.SetDefault("logging.file", defaults.Logging.File)
}

// LoadConfig is a convenience function that loads from the current
// working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}
