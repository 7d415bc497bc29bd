package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// CompactHandler renders one log line per record for console output:
// [LEVEL] HH:MM:SS message | key=value key=value
type CompactHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	out   io.Writer
	attrs []slog.Attr
}

// NewCompactHandler creates a compact console handler.
func NewCompactHandler(w io.Writer, opts *slog.HandlerOptions) *CompactHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &CompactHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		out:  w,
	}
}

func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)

	switch {
	case r.Level < slog.LevelDebug:
		buf = append(buf, "[TRACE] "...)
	case r.Level < slog.LevelInfo:
		buf = append(buf, "[DEBUG] "...)
	case r.Level < slog.LevelWarn:
		buf = append(buf, "[INFO]  "...)
	case r.Level < slog.LevelError:
		buf = append(buf, "[WARN]  "...)
	default:
		buf = append(buf, "[ERROR] "...)
	}

	buf = append(buf, r.Time.Format("15:04:05")...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	first := true
	emit := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		if first {
			buf = append(buf, " |"...)
			first = false
		}
		buf = append(buf, ' ')
		buf = h.appendAttr(buf, a)
	}
	for _, a := range h.attrs {
		emit(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		emit(a)
		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func (h *CompactHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	// Request and run ids are long uuids; eight characters identify them.
	if a.Key == "requestID" || a.Key == "runID" {
		if s, ok := a.Value.Any().(string); ok && len(s) > 8 {
			buf = append(buf, a.Key[:3]...)
			buf = append(buf, '=')
			buf = append(buf, s[:8]...)
			return buf
		}
	}
	if a.Key == "error" {
		buf = append(buf, "error="...)
		buf = append(buf, fmt.Sprintf("%q", fmt.Sprint(a.Value.Any()))...)
		return buf
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuoting(s) {
			buf = append(buf, fmt.Sprintf("%q", s)...)
		} else {
			buf = append(buf, s...)
		}
	case slog.KindDuration:
		buf = append(buf, v.Duration().String()...)
	case slog.KindTime:
		buf = append(buf, v.Time().Format(time.RFC3339)...)
	default:
		buf = append(buf, fmt.Sprintf("%v", v.Any())...)
	}

	return buf
}

func needsQuoting(s string) bool {
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '"' || r == '=' {
			return true
		}
	}
	return false
}

func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *CompactHandler) WithGroup(name string) slog.Handler {
	// Groups are not rendered specially in compact output.
	return h
}
