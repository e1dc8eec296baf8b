package utils

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Logger is a leveled logger with per-phase helpers. Each helper tags the
// entry with a "phase" field so search traces can be filtered.
type Logger struct {
	entry *log.Entry
}

// NewLogger creates a new logger writing to stderr at the given level
func NewLogger(level log.Level) *Logger {
	return newLogger(level, os.Stderr)
}

// NewFileLogger creates a new logger that writes to a file
func NewFileLogger(level log.Level, filename string) (*Logger, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrap(err, "creating log file")
	}
	return newLogger(level, file), nil
}

// NewNopLogger discards everything
func NewNopLogger() *Logger {
	return newLogger(log.PanicLevel, io.Discard)
}

func newLogger(level log.Level, out io.Writer) *Logger {
	l := log.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return &Logger{entry: log.NewEntry(l)}
}

// ParseLevel parses a logrus level name
func ParseLevel(s string) (log.Level, error) {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, errors.Wrapf(err, "log level %q", s)
	}
	return lvl, nil
}

// SetLevel changes the verbosity
func (l *Logger) SetLevel(level log.Level) {
	l.entry.Logger.SetLevel(level)
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

// WithField returns a child logger carrying an extra field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// WithFields returns a child logger carrying extra fields
func (l *Logger) WithFields(fields log.Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Trace logs a trace message (highest verbosity)
func (l *Logger) Trace(format string, args ...interface{}) {
	l.entry.Tracef(format, args...)
}

// Circuit logs information about circuit construction
func (l *Logger) Circuit(format string, args ...interface{}) {
	l.entry.WithField("phase", "circuit").Debugf(format, args...)
}

// Algorithm logs state machine transitions of a search run
func (l *Logger) Algorithm(format string, args ...interface{}) {
	l.entry.WithField("phase", "algorithm").Debugf(format, args...)
}

// Decision logs tentative input assignments
func (l *Logger) Decision(format string, args ...interface{}) {
	l.entry.WithField("phase", "decision").Debugf(format, args...)
}

// Backtrack logs rejected branches
func (l *Logger) Backtrack(format string, args ...interface{}) {
	l.entry.WithField("phase", "backtrack").Debugf(format, args...)
}

// Simulation logs per-pass simulation results
func (l *Logger) Simulation(format string, args ...interface{}) {
	l.entry.WithField("phase", "simulation").Tracef(format, args...)
}

// DefaultLogger is the default logger instance
var DefaultLogger = NewLogger(log.InfoLevel)

// SetDefaultLogLevel sets the log level of the default logger
func SetDefaultLogLevel(level log.Level) {
	DefaultLogger.SetLevel(level)
}
