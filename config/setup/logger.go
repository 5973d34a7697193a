package setup

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"notes-server/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger: JSON in production, text otherwise.
// When LOG_FILE_PATH is set, output is also written to a rotated file.
func NewLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFilePath != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    10, // Megabytes
			MaxBackups: 5,
			MaxAge:     30, // Days
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLogLevel(cfg.LogLevel),
		AddSource: cfg.Env == "development",
	}

	var handler slog.Handler
	if cfg.Env == "production" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
