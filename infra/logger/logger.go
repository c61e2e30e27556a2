package logger

import corelogger "github.com/careops/bookd/core/logger"

// Logger mirrors the core logging interface.
type Logger = corelogger.Logger

// NopLogger discards every message. Useful as a default in tests.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a Logger for the given component. Output format follows the
// APP_ENV environment variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
