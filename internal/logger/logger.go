// Package logger configures the process-wide slog logger.
// Output always goes to stderr unless a writer is given: stdout carries MCP frames.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Config contains logging configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

var (
	mu          sync.RWMutex
	logger      *slog.Logger
	atomicLevel = new(slog.LevelVar)
)

// Init builds the logger and installs it as the slog default
func Init(cfg Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	atomicLevel.Set(ParseLevel(cfg.Level))

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: atomicLevel})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      atomicLevel,
			TimeFormat: time.DateTime,
			NoColor:    !isTerminal(w),
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == "error" && a.Value.Kind() == slog.KindAny {
					if err, ok := a.Value.Any().(error); ok {
						return tint.Err(err)
					}
				}
				return a
			},
		})
	}

	l := slog.New(handler)
	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
	return l
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// SetLevel changes the level of the installed logger
func SetLevel(level slog.Level) {
	atomicLevel.Set(level)
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Get returns the installed logger, initializing a stderr text logger on first use
func Get() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	return Init(Config{}, os.Stderr)
}

// WithComponent returns a logger tagged with a component name
func WithComponent(component string) *slog.Logger {
	return Get().With("component", component)
}
