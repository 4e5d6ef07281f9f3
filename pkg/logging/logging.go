// Package logging provides the leveled, timestamped console log used by
// the vecgeo driver. A Logger is an explicit handle; there is no package
// level instance.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// TimeFormat is the layout of the timestamp prefix.
const TimeFormat = "2006-01-02 15:04:05"

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (case-insensitive) to a Level.
// "warn" is accepted for LevelWarning.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	}
	return 0, fmt.Errorf("logging: unknown level %q", s)
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// tag is the five-column label written between brackets.
func tag(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO "
	case l < slog.LevelError:
		return "WARN "
	default:
		return "ERROR"
	}
}

// lineHandler is a slog.Handler writing "[time] [LEVEL] message" lines.
// Attributes are appended as key=value pairs.
type lineHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level *slog.LevelVar
	now   func() time.Time
	attrs []slog.Attr
}

func (h *lineHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] [%s] %s", h.now().Format(TimeFormat), tag(r.Level), r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &nh
}

// WithGroup is not used by vecgeo; groups are flattened.
func (h *lineHandler) WithGroup(string) slog.Handler {
	return h
}

// Logger is a leveled logger safe for concurrent use.
type Logger struct {
	level *slog.LevelVar
	sl    *slog.Logger
}

// Option configures a Logger.
type Option func(*lineHandler)

// WithClock replaces the timestamp source. Tests use it to get stable
// output.
func WithClock(now func() time.Time) Option {
	return func(h *lineHandler) { h.now = now }
}

// New returns a Logger writing to w that drops messages below level.
func New(w io.Writer, level Level, opts ...Option) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level.slog())
	h := &lineHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: lv,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return &Logger{level: lv, sl: slog.New(h)}
}

// Discard returns a Logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, LevelError)
}

// SetLevel changes the minimum level that is written.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slog())
}

// Slog exposes the underlying slog.Logger for callers that want
// structured attributes.
func (l *Logger) Slog() *slog.Logger {
	return l.sl
}

// Log writes msg at level.
func (l *Logger) Log(level Level, msg string) {
	l.sl.Log(context.Background(), level.slog(), msg)
}

func (l *Logger) Debug(msg string)   { l.Log(LevelDebug, msg) }
func (l *Logger) Info(msg string)    { l.Log(LevelInfo, msg) }
func (l *Logger) Warning(msg string) { l.Log(LevelWarning, msg) }
func (l *Logger) Error(msg string)   { l.Log(LevelError, msg) }

// Debugf, Infof, Warningf and Errorf format with fmt.Sprintf.
func (l *Logger) Debugf(format string, args ...any)   { l.Debug(fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)    { l.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warningf(format string, args ...any) { l.Warning(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any)   { l.Error(fmt.Sprintf(format, args...)) }
