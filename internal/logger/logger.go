package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// VerboseChecker interface for checking verbose state
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger provides component-scoped structured logging with verbose support
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	base           zerolog.Logger
	zl             zerolog.Logger
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

var (
	outputMu sync.RWMutex
	output   io.Writer = os.Stderr
	noColor  bool
)

// SetOutput redirects all loggers created afterwards. The TUI uses this to
// keep log lines off the alternate screen. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	outputMu.Lock()
	defer outputMu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

// SetNoColor disables ANSI colors in the console writer
func SetNoColor(disabled bool) {
	outputMu.Lock()
	defer outputMu.Unlock()
	noColor = disabled
}

func newZerolog() zerolog.Logger {
	outputMu.RLock()
	w, plain := output, noColor
	outputMu.RUnlock()

	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    plain,
		TimeFormat: "15:04:05.000",
	}
	return zerolog.New(console).With().Timestamp().Logger()
}

func withComponent(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

// New creates a new logger instance
func New(component string, verboseChecker VerboseChecker) *Logger {
	if component == "" {
		component = "main"
	}
	base := newZerolog()
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		base:           base,
		zl:             withComponent(base, component),
	}
}

// NewWithCallback creates a new logger instance with a callback function
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{component: "nop", base: zerolog.Nop(), zl: zerolog.Nop()}
}

// WithComponent creates a logger with a specific component name.
// The name replaces the parent's instead of being added next to it.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: l.verboseChecker,
		base:           l.base,
		zl:             withComponent(l.base, component),
	}
}

// callbackChecker implements VerboseChecker with a callback function
type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

func (l *Logger) verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs debug messages (only when verbose=true)
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.verbose() {
		l.zl.Debug().Msgf(msg, args...)
	}
}

// Info logs informational messages (only when verbose=true)
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.verbose() {
		l.zl.Info().Msgf(msg, args...)
	}
}

// Warn logs warning messages (always shown)
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msgf(msg, args...)
}

// Error logs error messages (always shown)
func (l *Logger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msgf(msg, args...)
}

// DebugWithFields logs debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		withFields(l.zl.Debug(), fields).Msgf(msg, args...)
	}
}

// InfoWithFields logs info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		withFields(l.zl.Info(), fields).Msgf(msg, args...)
	}
}

// WarnWithFields logs warning message with structured fields (always shown)
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...interface{}) {
	withFields(l.zl.Warn(), fields).Msgf(msg, args...)
}

// ErrorWithFields logs error message with structured fields (always shown)
func (l *Logger) ErrorWithFields(msg string, fields []Field, args ...interface{}) {
	withFields(l.zl.Error(), fields).Msgf(msg, args...)
}

func withFields(e *zerolog.Event, fields []Field) *zerolog.Event {
	for _, field := range fields {
		switch v := field.Value.(type) {
		case error:
			e = e.AnErr(field.Key, v)
		case time.Duration:
			e = e.Dur(field.Key, v)
		case string:
			e = e.Str(field.Key, v)
		case int:
			e = e.Int(field.Key, v)
		default:
			e = e.Interface(field.Key, v)
		}
	}
	return e
}

// Helper functions for common field types
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}
