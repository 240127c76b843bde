// Package logging provides structured logging using Go's slog package.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/m-mizutani/masq"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace is below debug and used for request/response level detail.
const LevelTrace = slog.Level(-8)

// Config holds logging configuration.
type Config struct {
	Level   string // trace, debug, info, warn, error
	Format  string // json, text, pretty
	Service string // service name for default attrs
	Version string // service version for default attrs
	File    FileConfig

	// Secrets are literal values redacted wherever they appear in a
	// string attribute, such as the photo service access key.
	Secrets []string
}

// FileConfig enables an additional rolling JSON log file.
type FileConfig struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New creates a logger writing to stdout.
func New(cfg *Config) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a logger writing to w, plus the rolling file when
// enabled. The file stays open for the life of the process; use Open to
// get a closer.
func NewWithWriter(cfg *Config, w io.Writer) *slog.Logger {
	logger, _ := Open(cfg, w)
	return logger
}

// Open creates a logger writing to w and returns a closer for the rolling
// file, which is a no-op when no file is configured.
func Open(cfg *Config, w io.Writer) (*slog.Logger, io.Closer) {
	level := parseLevel(cfg.Level)
	replace := NewReplaceAttr(secretOptions(cfg.Secrets)...)

	handler := newConsoleHandler(cfg.Format, w, level, replace)

	var closer io.Closer = nopCloser{}

	if cfg.File.Enabled && cfg.File.Path != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
		closer = file

		handler = NewMultiHandler(handler, slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replace,
		}))
	}

	logger := slog.New(handler).With(
		slog.String("service_name", cfg.Service),
		slog.String("service_version", cfg.Version),
	)

	return logger, closer
}

func newConsoleHandler(format string, w io.Writer, level slog.Level, replace func([]string, slog.Attr) slog.Attr) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replace,
	}

	switch strings.ToLower(format) {
	case "text":
		return slog.NewTextHandler(w, opts)
	case "pretty":
		charm := log.NewWithOptions(w, log.Options{
			Level:           slogToCharmLevel(level),
			ReportTimestamp: true,
		})

		// charmbracelet/log has no ReplaceAttr hook.
		return newRedactHandler(charm, replace)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

func secretOptions(secrets []string) []masq.Option {
	opts := make([]masq.Option, 0, len(secrets))

	for _, s := range secrets {
		if strings.TrimSpace(s) == "" {
			continue
		}

		opts = append(opts, masq.WithContain(s))
	}

	return opts
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// slogToCharmLevel clamps an slog level onto the charm levels.
func slogToCharmLevel(level slog.Level) log.Level {
	switch {
	case level < slog.LevelInfo:
		return log.DebugLevel
	case level < slog.LevelWarn:
		return log.InfoLevel
	case level < slog.LevelError:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
