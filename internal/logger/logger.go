package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/ChicagoDave/gnosis/internal/config"
)

// Init installs the process-wide slog handler on stderr. Stdout is left
// for command output.
func Init(cfg config.LoggingConfig) *slog.Logger {
	return InitWriter(os.Stderr, cfg)
}

// InitWriter is Init with an explicit sink.
func InitWriter(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)

	l.With("component", "logger").Debug("Logger initialized",
		"level", cfg.Level,
		"json_format", cfg.JSONFormat,
	)
	return l
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
