// Package logging builds the slog logger used across the exporter.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"umamiexport/internal/config"
)

// New returns a text-handler logger writing to stderr. When a logs
// directory is configured, output is duplicated into a size-rotated file
// so cron runs keep a history.
func New(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stderr
	if dir := cfg.GetLogDirectory(); dir != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   filepath.Join(dir, cfg.AppName+".log"),
			MaxSize:    cfg.GetLogMaxSizeMB(),
			MaxBackups: cfg.GetLogMaxBackups(),
			MaxAge:     cfg.GetLogMaxAgeDays(),
		})
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLevel(cfg.GetLogLevel()),
	})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case string(config.LogLevelDebug):
		return slog.LevelDebug
	case string(config.LogLevelWarn):
		return slog.LevelWarn
	case string(config.LogLevelError):
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
