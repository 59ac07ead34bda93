// Package logging builds the comicdata [log/slog] logger and carries it
// through contexts.
//
// Diagnostics always go to stderr. Stdout belongs to command output: the
// literal printed by generate --stdout and the status lines of watch.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/vainstains/comicdata/internal/config"
)

type ctxKey struct{}

// Setup creates the logger for cfg on stderr and installs it as the
// process-wide default.
func Setup(cfg *config.Config) *slog.Logger {
	return SetupWithWriter(cfg, os.Stderr)
}

// SetupWithWriter is Setup writing to w.
//
// Text output stamps records with the wall clock only (15:04:05), the same
// stamp watch puts on its status lines, so the two interleave readably.
// JSON output keeps the full RFC 3339 time for log collectors.
func SetupWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.EffectiveLogLevel())}

	var handler slog.Handler

	switch cfg.LogFormat {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		opts.ReplaceAttr = clockTime
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func clockTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		return slog.String(slog.TimeKey, a.Value.Time().Format(time.TimeOnly))
	}

	return a
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewContext returns a child context carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from ctx, falling back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.Default()
}

// Named returns the context logger tagged with component=<component>.
// Commands use it so generate, build and watch lines can be told apart.
func Named(ctx context.Context, component string) *slog.Logger {
	return FromContext(ctx).With(slog.String("component", component))
}
