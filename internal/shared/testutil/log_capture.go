package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured record. Attrs holds both the record's own
// attributes and those bound with Logger.With.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// BufferedSlogHandler is an slog.Handler that keeps every record in memory
// and echoes it to t.Log. Derived handlers append to the same buffer.
type BufferedSlogHandler struct {
	mu      *sync.Mutex
	records *[]LogRecord
	bound   []slog.Attr
	t       *testing.T
}

// NewTestLogger returns a logger writing into a fresh BufferedSlogHandler.
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	h := &BufferedSlogHandler{mu: &sync.Mutex{}, records: &[]LogRecord{}, t: t}
	return slog.New(h), h
}

func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	rec := LogRecord{Time: r.Time, Level: r.Level, Message: r.Message, Attrs: map[string]any{}}
	for _, a := range h.bound {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	*h.records = append(*h.records, rec)
	h.mu.Unlock()

	if h.t != nil {
		h.t.Logf("%s %s %v", r.Level, r.Message, rec.Attrs)
	}
	return nil
}

func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.bound = append(append([]slog.Attr{}, h.bound...), attrs...)
	return &clone
}

// WithGroup is a no-op; group names are dropped.
func (h *BufferedSlogHandler) WithGroup(string) slog.Handler { return h }

// Records returns a snapshot of everything logged so far.
func (h *BufferedSlogHandler) Records() []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]LogRecord(nil), *h.records...)
}

func (h *BufferedSlogHandler) find(match func(LogRecord) bool) bool {
	for _, r := range h.Records() {
		if match(r) {
			return true
		}
	}
	return false
}

func (h *BufferedSlogHandler) dump(t *testing.T) {
	for _, r := range h.Records() {
		t.Logf("  %s %q %v", r.Level, r.Message, r.Attrs)
	}
}

// AssertLogContains fails t unless a record at level has a message containing message.
func AssertLogContains(t *testing.T, h *BufferedSlogHandler, level slog.Level, message string) {
	t.Helper()
	if !h.find(func(r LogRecord) bool { return r.Level == level && strings.Contains(r.Message, message) }) {
		t.Errorf("no %s log containing %q; captured:", level, message)
		h.dump(t)
	}
}

// AssertLogAttr fails t unless some record carries key=want.
func AssertLogAttr(t *testing.T, h *BufferedSlogHandler, key string, want any) {
	t.Helper()
	if !h.find(func(r LogRecord) bool { v, ok := r.Attrs[key]; return ok && v == want }) {
		t.Errorf("no log with %s=%v; captured:", key, want)
		h.dump(t)
	}
}
