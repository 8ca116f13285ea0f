// Package logger provides structured diagnostic logging for the pm CLI.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	LevelDebug = "debug"
	LevelWarn  = "warn"
)

// Logger wraps a logrus logger.
type Logger struct {
	log *logrus.Logger
}

// Entry accumulates fields before a message is emitted.
type Entry struct {
	entry *logrus.Entry
	level logrus.Level
}

// New creates a logger writing to output at the given level. Unknown levels
// fall back to warn.
func New(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(output)

	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		parsed = logrus.WarnLevel
	}
	log.SetLevel(parsed)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})

	return &Logger{log: log}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(LevelWarn, io.Discard)
}

func (l *Logger) Debug() *Entry {
	return l.newEntry(logrus.DebugLevel)
}

func (l *Logger) newEntry(level logrus.Level) *Entry {
	if l == nil || l.log == nil {
		return &Entry{entry: logrus.NewEntry(Discard().log), level: level}
	}
	return &Entry{entry: logrus.NewEntry(l.log), level: level}
}

func (e *Entry) Str(key, value string) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

func (e *Entry) Int(key string, value int) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

func (e *Entry) Err(err error) *Entry {
	if err != nil {
		e.entry = e.entry.WithError(err)
	}
	return e
}

// Msg emits the message with the accumulated fields.
func (e *Entry) Msg(msg string) {
	e.entry.Log(e.level, msg)
}
