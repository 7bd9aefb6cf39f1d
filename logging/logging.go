// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

const logTimeLayout = "2006-01-02 15:04:05"

// New returns a structured slog.Logger writing text lines whose time is
// rendered as "YYYY-MM-DD HH:MM:SS".
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				return slog.String(slog.TimeKey, a.Value.Time().Format(logTimeLayout))
			}
			return a
		},
	})
	return slog.New(h)
}

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
