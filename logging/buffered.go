package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// BufferedLogHandler captures log records in memory as JSON lines. Tests
// install it with SetLogger and then inspect what a pass reported.
type BufferedLogHandler struct {
	level  slog.Leveler
	state  *bufferState
	attrs  []slog.Attr
	groups []string
}

type bufferState struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	entries []Entry
}

// Entry is one captured record.
type Entry struct {
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

// NewBufferedLogHandler returns an empty handler. A nil opts captures
// every level.
func NewBufferedLogHandler(opts *slog.HandlerOptions) *BufferedLogHandler {
	h := &BufferedLogHandler{state: &bufferState{}}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *BufferedLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

func (h *BufferedLogHandler) Handle(_ context.Context, r slog.Record) error {
	e := Entry{Level: r.Level.String(), Message: r.Message, Attrs: make(map[string]string)}
	for _, a := range h.attrs {
		e.Attrs[h.key(a.Key)] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[h.key(a.Key)] = a.Value.String()
		return true
	})
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	h.state.entries = append(h.state.entries, e)
	h.state.buf.Write(data)
	h.state.buf.WriteByte('\n')
	return nil
}

func (h *BufferedLogHandler) key(k string) string {
	if len(h.groups) == 0 {
		return k
	}
	return strings.Join(h.groups, ".") + "." + k
}

func (h *BufferedLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	na := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	na = append(na, h.attrs...)
	na = append(na, attrs...)
	return &BufferedLogHandler{level: h.level, state: h.state, attrs: na, groups: h.groups}
}

func (h *BufferedLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	ng := append(append([]string(nil), h.groups...), name)
	return &BufferedLogHandler{level: h.level, state: h.state, attrs: h.attrs, groups: ng}
}

// String returns all captured output.
func (h *BufferedLogHandler) String() string {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return h.state.buf.String()
}

// Contains reports whether the captured output contains s.
func (h *BufferedLogHandler) Contains(s string) bool {
	return strings.Contains(h.String(), s)
}

// Entries returns a copy of the captured records.
func (h *BufferedLogHandler) Entries() []Entry {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return append([]Entry(nil), h.state.entries...)
}

// Count returns the number of captured records at level.
func (h *BufferedLogHandler) Count(level slog.Level) int {
	n := 0
	for _, e := range h.Entries() {
		if e.Level == level.String() {
			n++
		}
	}
	return n
}

// Reset clears all captured output.
func (h *BufferedLogHandler) Reset() {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	h.state.buf.Reset()
	h.state.entries = nil
}
