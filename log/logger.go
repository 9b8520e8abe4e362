// Package log builds the process logger and replays guest log records.
package log

import (
	"io"
	"log/slog"
)

// New returns a logger writing text or JSON records at or above level.
// Any format other than "json" selects text.
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
