package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger creates the process logger: JSON to the log file, and
// optionally text to stderr. The TUI owns the terminal, so its process
// passes toStderr=false. Returns the logger and a cleanup function.
func SetupLogger(logFile string, level slog.Level, toStderr bool) (*slog.Logger, func() error) {
	var handlers []slog.Handler

	if toStderr {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}

	cleanup := func() error { return nil }
	if logFile != "" {
		os.MkdirAll(filepath.Dir(logFile), 0o755)
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{
				Level: level,
			}))
			cleanup = file.Close
		}
	}

	if len(handlers) == 0 {
		// Nothing to write to; drop everything.
		return slog.New(slog.NewTextHandler(io.Discard, nil)), cleanup
	}

	return slog.New(slogmulti.Fanout(handlers...)), cleanup
}
