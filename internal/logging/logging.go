// Package logging builds the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"golang.org/x/sys/unix"
)

// Options selects the handler.
type Options struct {
	Level  slog.Level
	Format string // "text" or "json"
}

// ParseLevel maps a config/flag level name to a slog level.
// Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler returns a JSON handler or a tint handler writing to w.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	if opts.Format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	}

	// When running under systemd, the journal adds its own timestamps.
	underSystemd := os.Getenv("INVOCATION_ID") != "" || os.Getenv("JOURNAL_STREAM") != ""
	tintOpts := &tint.Options{
		Level:      opts.Level,
		TimeFormat: time.TimeOnly,
		NoColor:    underSystemd || !isTerminal(w),
	}
	if underSystemd {
		tintOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		}
	}
	return tint.NewHandler(w, tintOpts)
}

// Setup installs the default logger on stderr and tags it with a run id,
// so that lines from one bar widget process can be told apart in the journal.
func Setup(opts Options) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, opts)).With("run", uuid.NewString()[:8])
	slog.SetDefault(logger)
	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}
