package config

import (
	"errors"
	"fmt"
	"strings"

	slidemodel "github.com/VantageDataChat/GoSlideModel"
)

var (
	// ErrInvalidLimit indicates a non-positive reader limit
	ErrInvalidLimit = errors.New("invalid reader limit")

	// ErrInvalidThumbnail indicates an unusable thumbnail width
	ErrInvalidThumbnail = errors.New("invalid thumbnail width")

	// ErrInvalidColor indicates a placeholder color that is not RRGGBB
	ErrInvalidColor = errors.New("invalid placeholder color")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidLogFormat indicates an unknown log format
	ErrInvalidLogFormat = errors.New("invalid log format")
)

// Validate checks that the configuration is valid and complete. All
// problems are reported together.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Reader.MaxEntrySize <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_entry_size must be positive, got %d", ErrInvalidLimit, cfg.Reader.MaxEntrySize))
	}
	if cfg.Reader.MaxTotalSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_total_size must be positive, got %d", ErrInvalidLimit, cfg.Reader.MaxTotalSize))
	}
	if cfg.Reader.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_entries must be positive, got %d", ErrInvalidLimit, cfg.Reader.MaxEntries))
	}

	if cfg.Writer.ThumbnailWidth < 16 || cfg.Writer.ThumbnailWidth > 4096 {
		errs = append(errs, fmt.Errorf("%w: must be within 16..4096, got %d", ErrInvalidThumbnail, cfg.Writer.ThumbnailWidth))
	}
	if c := cfg.Writer.PlaceholderColor; len(strings.TrimPrefix(c, "#")) != 6 {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidColor, c))
	} else if _, err := slidemodel.ParseHexColor(c); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidColor, err))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Logging.Level))
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
