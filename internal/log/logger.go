// Package log configures the process-wide slog logger for wfdispatch.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	// ComponentKey names the subsystem that emitted a record.
	ComponentKey = "component"
	// CorrelationKey carries the per-invocation correlation id.
	CorrelationKey = "cid"
)

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// ParseLevel maps a level name to a slog.Level.
// Unknown names fall back to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to w. format is "json" or "text" (default).
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Setup initializes the global logger on stderr and makes it the slog default.
// Stdout is reserved for command output.
func Setup(level, format string) *slog.Logger {
	l := New(os.Stderr, level, format)

	mu.Lock()
	logger = l
	mu.Unlock()

	slog.SetDefault(l)
	return l
}

// Get returns the configured logger, or an INFO text logger if Setup hasn't been called.
func Get() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()

	if l == nil {
		return Setup("INFO", "text")
	}
	return l
}

// WithComponent returns a logger with the component field set.
func WithComponent(name string) *slog.Logger {
	return Get().With(slog.String(ComponentKey, name))
}

// WithCorrelation returns l annotated with the correlation id.
func WithCorrelation(l *slog.Logger, cid string) *slog.Logger {
	return l.With(slog.String(CorrelationKey, cid))
}

// NewCorrelationID returns a fresh id for one invocation.
func NewCorrelationID() string {
	return uuid.NewString()
}

// AtLeast returns l with records below floor dropped, e.g. to keep info lines
// from drawing over a terminal spinner.
func AtLeast(l *slog.Logger, floor slog.Level) *slog.Logger {
	return slog.New(levelFloor{Handler: l.Handler(), min: floor})
}

type levelFloor struct {
	slog.Handler
	min slog.Level
}

func (h levelFloor) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min && h.Handler.Enabled(ctx, level)
}

func (h levelFloor) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelFloor{Handler: h.Handler.WithAttrs(attrs), min: h.min}
}

func (h levelFloor) WithGroup(name string) slog.Handler {
	return levelFloor{Handler: h.Handler.WithGroup(name), min: h.min}
}
