package logger

// Logger is the logging contract used across the service. Core packages only
// depend on this interface; the zerolog-backed implementation lives under
// infra/logger.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a debug message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
