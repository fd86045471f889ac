package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization for command-line hosts.
// Values can be provided directly or via environment variables:
//   - SLIDEMODEL_LOG_LEVEL=debug|info|warn|error
//   - SLIDEMODEL_LOG_FORMAT=text|json
//   - SLIDEMODEL_LOG_FILE=<path> (enables rotated JSON file logging)
//   - SLIDEMODEL_LOG_SOURCE=true|false
type Options struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"` // "text" or "json"
	AddSource bool   `yaml:"add_source" mapstructure:"add_source"`
	File      string `yaml:"file" mapstructure:"file"`
}

// Init builds a logger from opts, installs it with SetLogger and returns
// it. Console output goes to stderr; File adds a rotating JSON log.
func Init(opts Options) *slog.Logger {
	return initTo(os.Stderr, opts)
}

func initTo(w io.Writer, opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level), AddSource: opts.AddSource}

	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(w, hopts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(w, hopts))
	}

	if strings.TrimSpace(opts.File) != "" {
		fw := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(fw, hopts))
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = &multi{hs: handlers}
	}
	l := slog.New(h).With(slog.String("app", "slidemodel"))
	SetLogger(l)
	return l
}

// FromEnv builds Options from SLIDEMODEL_LOG_* environment variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("SLIDEMODEL_LOG_LEVEL", "info"),
		Format:    getenv("SLIDEMODEL_LOG_FORMAT", "text"),
		AddSource: strings.EqualFold(getenv("SLIDEMODEL_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("SLIDEMODEL_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseLevel converts a level name to slog.Level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// multi fans out log records to multiple handlers.
type multi struct{ hs []slog.Handler }

func (m *multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multi) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithAttrs(attrs)
	}
	return &multi{hs: res}
}

func (m *multi) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithGroup(name)
	}
	return &multi{hs: res}
}
