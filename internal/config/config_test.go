package config

// Test Plan for Config System:
// - Default() returns a configuration that passes Validate
// - Load() uses defaults when no config file exists
// - Load() merges slidemodel.yaml with defaults
// - Environment variables override config file values
// - Load() rejects malformed YAML and invalid values
// - An explicit config file that does not exist is an error
// - WriteDefault() output loads back to the defaults
// - Validate() reports every invalid field at once

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, int64(50<<20), cfg.Reader.MaxEntrySize)
	assert.Equal(t, int64(200<<20), cfg.Reader.MaxTotalSize)
	assert.Equal(t, 10000, cfg.Reader.MaxEntries)
	assert.True(t, cfg.Writer.Validate)
	assert.False(t, cfg.Writer.Thumbnail)
	assert.Equal(t, 256, cfg.Writer.ThumbnailWidth)
	assert.Equal(t, "D9D9D9", cfg.Writer.PlaceholderColor)
	assert.Equal(t, "warn", cfg.Logging.Level)

	require.NoError(t, Validate(cfg))
}

func TestLoad_UsesDefaultsWithoutFile(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MergesFileWithDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
writer:
  thumbnail: true
  thumbnail_width: 320
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slidemodel.yaml"), []byte(content), 0o644))

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.True(t, cfg.Writer.Thumbnail)
	assert.Equal(t, 320, cfg.Writer.ThumbnailWidth)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	assert.True(t, cfg.Writer.Validate)
	assert.Equal(t, 10000, cfg.Reader.MaxEntries)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slidemodel.yaml"), []byte("writer:\n  thumbnail_width: 320\n"), 0o644))
	t.Setenv("SLIDEMODEL_WRITER_THUMBNAIL_WIDTH", "512")
	t.Setenv("SLIDEMODEL_READER_MAX_ENTRIES", "42")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Writer.ThumbnailWidth)
	assert.Equal(t, 42, cfg.Reader.MaxEntries)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slidemodel.yaml"), []byte("writer: [unclosed\n"), 0o644))

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slidemodel.yaml"), []byte("writer:\n  placeholder_color: nope\n"), 0o644))

	_, err := NewLoader(dir).Load()
	require.ErrorIs(t, err, ErrInvalidColor)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.Error(t, err)
}

func TestWriteDefault_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "slidemodel.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Reader.MaxEntries = 0
	cfg.Writer.ThumbnailWidth = 1
	cfg.Logging.Format = "xml"

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLimit)
	assert.ErrorIs(t, err, ErrInvalidThumbnail)
	assert.ErrorIs(t, err, ErrInvalidLogFormat)
}

func TestOptions_Conversion(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.ReadOptions(), 1)
	assert.Len(t, cfg.WriteOptions(), 2)

	cfg.Writer.Thumbnail = true
	assert.Len(t, cfg.WriteOptions(), 3)

	cfg.Writer.SystemFonts = true
	assert.Len(t, cfg.WriteOptions(), 4)
}
