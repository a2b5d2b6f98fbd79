// Package logging builds the slog.Logger every PlayForge service uses,
// reading its shape from pkg/config.LoggingConfig.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/playforge/core/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a configured slog.Logger bound with a "service" attribute.
func New(serviceName string, cfg *config.LoggingConfig) *slog.Logger {
	if cfg == nil {
		cfg = &config.LoggingConfig{Level: "info", Format: "text", Output: "stdout"}
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	writer := createWriter(cfg)

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func createWriter(cfg *config.LoggingConfig) io.Writer {
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		return os.Stderr
	case "file":
		if cfg.File == nil {
			fmt.Fprintln(os.Stderr, "logging: file output requested without file config, falling back to stdout")
			return os.Stdout
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File.Path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "logging: failed to create log directory: %v, falling back to stdout\n", err)
			return os.Stdout
		}
		return &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSize,
			MaxBackups: cfg.File.MaxFiles,
			MaxAge:     cfg.File.MaxAge,
			Compress:   cfg.File.Compress,
		}
	default:
		return os.Stdout
	}
}
