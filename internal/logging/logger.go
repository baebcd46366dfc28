package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var defaultLogger atomic.Pointer[log.Logger]

func init() {
	defaultLogger.Store(New("info"))
}

// New returns a stderr logger prefixed "regionfmt" at the given level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a logger writing to w. Unknown levels mean info;
// level names are case-insensitive and "warning" is accepted for warn.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "regionfmt"})
	logger.SetLevel(parseLevel(level))
	return logger
}

// NewInteractive returns the unprefixed info-level logger used by commands
// that talk to a person, such as init.
func NewInteractive() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{})
	logger.SetLevel(log.InfoLevel)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, "error")
}

func parseLevel(level string) log.Level {
	level = strings.ToLower(level)
	if level == "warning" {
		level = "warn"
	}
	parsed, err := log.ParseLevel(level)
	if err != nil || parsed < log.DebugLevel || parsed > log.ErrorLevel {
		return log.InfoLevel
	}
	return parsed
}

// Default returns the process-wide logger.
func Default() *log.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(parseLevel(level))
}

type loggerKey struct{}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// With attaches a child of ctx's logger that carries keyvals on every line.
func With(ctx context.Context, keyvals ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(keyvals...))
}

// FromContext returns the logger attached to ctx, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}
