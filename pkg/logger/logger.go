package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Leveled logger used across the service, backed by zerolog.
// - Debug/Info/Warn/Error/Fatal variants and Init(level)
// - With(component) returns a sub-logger tagging every line with the component

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu    sync.RWMutex
	level Level = LevelInfo
	base        = newZerolog(os.Stdout)
)

func newZerolog(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("service", "doc-revisions").Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	s := strings.ToLower(strings.TrimSpace(l))
	switch s {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	case "fatal":
		level = LevelFatal
	default:
		level = LevelInfo
	}
}

// SetOutput redirects all log output. Console output is used when pretty is
// true (development), JSON lines otherwise.
func SetOutput(w io.Writer, pretty bool) {
	mu.Lock()
	defer mu.Unlock()
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	base = newZerolog(w)
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Logger is a component-scoped logger.
type Logger struct {
	component string
}

// With returns a logger that adds component=<name> to every line.
func With(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) event(lvl Level) *zerolog.Event {
	z := current()
	var e *zerolog.Event
	switch lvl {
	case LevelDebug:
		e = z.Debug()
	case LevelInfo:
		e = z.Info()
	case LevelWarn:
		e = z.Warn()
	case LevelError:
		e = z.Error()
	default:
		e = z.WithLevel(zerolog.FatalLevel)
	}
	if l != nil && l.component != "" {
		e = e.Str("component", l.component)
	}
	return e
}

func (l *Logger) logf(lvl Level, format string, v ...interface{}) {
	if lvl < LevelFatal && !shouldLog(lvl) {
		return
	}
	l.event(lvl).Msg(fmt.Sprintf(format, v...))
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }

var std = &Logger{}

func Debugf(format string, v ...interface{}) { std.logf(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { std.logf(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { std.logf(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { std.logf(LevelError, format, v...) }

func Fatalf(format string, v ...interface{}) {
	std.logf(LevelFatal, format, v...)
	os.Exit(1)
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
