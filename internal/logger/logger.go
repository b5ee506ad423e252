// Package logger provides structured logging on top of log/slog with
// trace-ID propagation from the request context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// Level represents the minimum level at which records are emitted.
type Level slog.Level

// Log levels.
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// TraceIDFn extracts a trace ID from the context for log correlation.
type TraceIDFn func(ctx context.Context) string

// LoggerInterface is the logging contract consumed by the rest of the
// application. Concrete providers wrap slog; tests may supply no-ops.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

// Logger wraps slog with service metadata and caller annotation.
type Logger struct {
	handler   slog.Handler
	traceIDFn TraceIDFn
}

// New constructs a Logger writing JSON records to w at the given minimum
// level. The service name is attached to every record. traceIDFn may be
// nil when trace correlation is not needed.
func New(w io.Writer, minLevel Level, serviceName string, traceIDFn TraceIDFn) *Logger {
	// Convert the file path of the caller to a short file:line form.
	f := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.SourceKey {
			if source, ok := a.Value.Any().(*slog.Source); ok {
				v := filepath.Base(source.File)
				return slog.Attr{Key: "file", Value: slog.StringValue(v)}
			}
		}
		return a
	}

	handler := slog.Handler(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.Level(minLevel),
		ReplaceAttr: f,
	}))

	if serviceName != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", serviceName)})
	}

	return &Logger{
		handler:   handler,
		traceIDFn: traceIDFn,
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelDebug, 3, msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelInfo, 3, msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelWarn, 3, msg, args...)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelError, 3, msg, args...)
}

func (l *Logger) write(ctx context.Context, level slog.Level, caller int, msg string, args ...any) {
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(caller, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])

	if l.traceIDFn != nil {
		args = append(args, "trace_id", l.traceIDFn(ctx))
	}
	r.Add(args...)

	_ = l.handler.Handle(ctx, r)
}

// NewNop returns a Logger that discards all records. Useful in tests.
func NewNop() *Logger {
	return New(io.Discard, LevelError, "", nil)
}
