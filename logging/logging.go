// Package logging builds the process logger: slog to stdout, optionally
// teed into a size-rotated file.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/warp/wage-engine/config"
	"gopkg.in/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger for cfg and a closer for its file sink, if any.
func New(cfg config.LogConfig) (*slog.Logger, io.Closer) {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with console output sent to console.
func NewWithWriter(cfg config.LogConfig, console io.Writer) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}
	writers := []io.Writer{console}

	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
		writers = append(writers, rotating)
		closer = rotating
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	out := io.MultiWriter(writers...)

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h), closer
}

// StdLogger adapts l for APIs that want a *log.Logger.
func StdLogger(l *slog.Logger) *log.Logger {
	return slog.NewLogLogger(l.Handler(), slog.LevelInfo)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
