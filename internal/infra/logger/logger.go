package logger

import (
	"io"
	"log/slog"
	"os"
)

// New builds the process-wide JSON logger. Dev runs at debug level; every
// record carries the service name so aggregated streams stay attributable.
func New(env string) *slog.Logger {
	return slog.New(handler(os.Stdout, env)).With("service", "activos")
}

func handler(w io.Writer, env string) slog.Handler {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
