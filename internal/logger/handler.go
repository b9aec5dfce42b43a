package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	purple = "\033[35m"
	cyan   = "\033[36m"
	gray   = "\033[37m"
	white  = "\033[97m"
)

// PrettyHandler writes one coloured line per record for local development.
// Attributes bound through WithAttrs are rendered once, under the group
// prefix that was active when they were bound.
type PrettyHandler struct {
	opts   slog.HandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	bound  []byte
	groups []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts: *opts,
		w:    w,
		mu:   &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minimum := slog.LevelInfo
	if h.opts.Level != nil {
		minimum = h.opts.Level.Level()
	}
	return level >= minimum
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return red
	case level >= slog.LevelWarn:
		return yellow
	case level >= slog.LevelInfo:
		return green
	default:
		return purple
	}
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var line bytes.Buffer

	fmt.Fprintf(&line, "%s%s%s ", gray, r.Time.Format("15:04:05.000"), reset)
	fmt.Fprintf(&line, "%s%-5s%s ", levelColor(r.Level), r.Level.String(), reset)
	fmt.Fprintf(&line, "%s%s%s", white, r.Message, reset)

	line.Write(h.bound)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&line, h.groups, a)
		return true
	})
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(line.Bytes())
	return err
}

func (h *PrettyHandler) appendAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		nested := groups
		if a.Key != "" {
			nested = append(append([]string(nil), groups...), a.Key)
		}
		for _, member := range a.Value.Group() {
			h.appendAttr(buf, nested, member)
		}
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	keyColor := cyan
	var val any = a.Value.Any()
	switch v := val.(type) {
	case time.Time:
		val = v.Format(time.RFC3339)
	case error:
		keyColor = red
		val = v.Error()
	}

	fmt.Fprintf(buf, " %s%s%s=%v", keyColor, key, reset, val)
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		opts:   h.opts,
		w:      h.w,
		mu:     h.mu,
		bound:  append([]byte(nil), h.bound...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	next := h.clone()
	buf := bytes.NewBuffer(next.bound)
	for _, a := range attrs {
		next.appendAttr(buf, next.groups, a)
	}
	next.bound = buf.Bytes()
	return next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}
