package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// DefaultSize is how many records a BufferHandler keeps.
const DefaultSize = 50

type ring struct {
	mu      sync.Mutex
	size    int
	records []slog.Record
}

func (r *ring) add(rec slog.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	if len(r.records) > r.size {
		r.records = r.records[len(r.records)-r.size:]
	}
}

func (r *ring) snapshot() []slog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]slog.Record(nil), r.records...)
}

// BufferHandler is a slog.Handler that remembers the most recent records at
// every level, and forwards to the wrapped handler only the records it has
// enabled. Debug output hidden from the terminal can then be replayed when
// something goes wrong.
type BufferHandler struct {
	slog.Handler
	ring *ring
}

// NewBufferHandler creates a BufferHandler keeping the last size records.
func NewBufferHandler(handler slog.Handler, size int) *BufferHandler {
	if size <= 0 {
		size = DefaultSize
	}
	return &BufferHandler{
		Handler: handler,
		ring:    &ring{size: size},
	}
}

// Enabled reports true for every level so that all records are buffered.
func (h *BufferHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

// Handle stores the record and passes it on if the wrapped handler wants it.
func (h *BufferHandler) Handle(ctx context.Context, r slog.Record) error {
	h.ring.add(r.Clone())
	if !h.Handler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.Handler.Handle(ctx, r)
}

func (h *BufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BufferHandler{Handler: h.Handler.WithAttrs(attrs), ring: h.ring}
}

func (h *BufferHandler) WithGroup(name string) slog.Handler {
	return &BufferHandler{Handler: h.Handler.WithGroup(name), ring: h.ring}
}

// Logs returns the stored records, oldest first.
func (h *BufferHandler) Logs() []slog.Record {
	return h.ring.snapshot()
}

// Replay writes the stored records below level to w, one per line.
func (h *BufferHandler) Replay(w io.Writer, below slog.Level) {
	for _, r := range h.Logs() {
		if r.Level >= below {
			continue
		}
		fmt.Fprintf(w, "%s %s", r.Level, r.Message)
		r.Attrs(func(a slog.Attr) bool {
			fmt.Fprintf(w, " %s=%v", a.Key, a.Value.Any())
			return true
		})
		fmt.Fprintln(w)
	}
}

var defaultHandler *BufferHandler

// Init wraps handler in a BufferHandler and installs it as the slog default.
func Init(handler slog.Handler) *slog.Logger {
	defaultHandler = NewBufferHandler(handler, DefaultSize)
	logger := slog.New(defaultHandler)
	slog.SetDefault(logger)
	return logger
}

// Logs returns the stored records of the default handler.
func Logs() []slog.Record {
	if defaultHandler == nil {
		return nil
	}
	return defaultHandler.Logs()
}

// Replay writes the default handler's stored records below level to w.
func Replay(w io.Writer, below slog.Level) {
	if defaultHandler == nil {
		return
	}
	defaultHandler.Replay(w, below)
}
