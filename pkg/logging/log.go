// Package logging provides named logrus loggers sharing one output.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const componentKey = "component"

var base = &logrus.Logger{
	Out: os.Stderr,
	Formatter: &ComponentFormatter{
		TextFormatter: logrus.TextFormatter{
			DisableTimestamp: true,
		},
	},
	Hooks: make(logrus.LevelHooks),
	Level: logrus.InfoLevel,
}

// NamedLogger creates a named package logger
func NamedLogger(name string) *logrus.Entry {
	return base.WithField(componentKey, name)
}

// SetVerbose switches every named logger between info and debug level
func SetVerbose(verbose bool) {
	if verbose {
		base.SetLevel(logrus.DebugLevel)
		return
	}
	base.SetLevel(logrus.InfoLevel)
}

// SetOutput redirects every named logger
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// ComponentFormatter prefixes the message with the logger name
type ComponentFormatter struct {
	logrus.TextFormatter
}

// Format renders a single log entry
func (f *ComponentFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if name, ok := entry.Data[componentKey]; ok {
		// Dup keeps neither the message nor the level
		msg, level, caller := entry.Message, entry.Level, entry.Caller
		entry = entry.Dup()
		delete(entry.Data, componentKey)
		entry.Level = level
		entry.Caller = caller
		entry.Message = fmt.Sprintf("[%-8s] %s", name, msg)
	}
	return f.TextFormatter.Format(entry)
}
