package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Key constants for structured log fields.
const (
	KeyComponent = "component"
	KeyMonitor   = "monitor"
	KeyState     = "state"
	KeyError     = "error"
)

type contextKey struct{}

// handlerSwitch lets package-level loggers created before Init pick up the
// configured handler once Init runs. WithAttrs/WithGroup calls are replayed
// in order on top of whichever handler is current.
type handlerSwitch struct {
	current *atomic.Value // slog.Handler
	ops     []func(slog.Handler) slog.Handler
}

func newHandlerSwitch(h slog.Handler) *handlerSwitch {
	v := &atomic.Value{}
	v.Store(h)
	return &handlerSwitch{current: v}
}

func (h *handlerSwitch) swap(handler slog.Handler) {
	h.current.Store(handler)
}

func (h *handlerSwitch) resolve() slog.Handler {
	handler := h.current.Load().(slog.Handler)
	for _, op := range h.ops {
		handler = op(handler)
	}
	return handler
}

func (h *handlerSwitch) with(op func(slog.Handler) slog.Handler) *handlerSwitch {
	ops := make([]func(slog.Handler) slog.Handler, 0, len(h.ops)+1)
	ops = append(ops, h.ops...)
	ops = append(ops, op)
	return &handlerSwitch{current: h.current, ops: ops}
}

func (h *handlerSwitch) Enabled(ctx context.Context, level slog.Level) bool {
	return h.resolve().Enabled(ctx, level)
}

func (h *handlerSwitch) Handle(ctx context.Context, record slog.Record) error {
	return h.resolve().Handle(ctx, record)
}

func (h *handlerSwitch) WithAttrs(attrs []slog.Attr) slog.Handler {
	attrs = append([]slog.Attr(nil), attrs...)
	return h.with(func(base slog.Handler) slog.Handler { return base.WithAttrs(attrs) })
}

func (h *handlerSwitch) WithGroup(name string) slog.Handler {
	return h.with(func(base slog.Handler) slog.Handler { return base.WithGroup(name) })
}

var (
	root          = newHandlerSwitch(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	defaultLogger = slog.New(root)
)

func init() {
	slog.SetDefault(defaultLogger)
}

// Init configures the global logger. Call once after config is loaded.
// format: "json" or "text" (default "text")
// level: "debug", "info", "warn", "error" (default "info")
// output: writer to log to (nil = os.Stderr, stdout belongs to the view)
func Init(format, level string, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	root.swap(handler)
	slog.SetDefault(defaultLogger)
}

// Setup wires Init to an optional size-rotated log file. With a file the
// log goes only there so it does not interleave with the console view.
// The returned closer releases the file and is safe to call when no file
// was opened.
func Setup(format, level, file string, maxSizeMB, maxBackups int) (io.Closer, error) {
	if file == "" {
		Init(format, level, nil)
		return nopCloser{}, nil
	}
	rw, err := NewRotatingWriter(file, maxSizeMB, maxBackups)
	if err != nil {
		Init(format, level, nil)
		return nopCloser{}, err
	}
	Init(format, level, rw)
	return rw, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// L returns a logger tagged with the given component name.
func L(component string) *slog.Logger {
	return defaultLogger.With(slog.String(KeyComponent, component))
}

// NewContext returns a new context carrying the given logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts the logger from context, falling back to the default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
