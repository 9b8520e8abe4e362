package guest

import (
	"context"
	"encoding/json"
	"log/slog"

	guestlog "github.com/reglet-dev/reglet-rand/log"
)

// LogHandler is a slog.Handler that ships records to the host's
// log_message hook as log.LogMessageWire JSON.
type LogHandler struct {
	sink  func([]byte)
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewLogHandler returns a handler passing encoded records to sink.
func NewLogHandler(sink func([]byte), level slog.Leveler) *LogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogHandler{sink: sink, level: level}
}

// Enabled implements slog.Handler.
func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	out.AddAttrs(h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.qualify(a))
		return true
	})

	data, err := json.Marshal(guestlog.NewLogMessageWire(out))
	if err != nil {
		return err
	}
	h.sink(data)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, h.qualify(a))
	}
	return &next
}

// WithGroup implements slog.Handler. Groups are flattened into dotted keys.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.qualifyKey(name)
	return &next
}

func (h *LogHandler) qualify(a slog.Attr) slog.Attr {
	a.Key = h.qualifyKey(a.Key)
	return a
}

func (h *LogHandler) qualifyKey(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}
