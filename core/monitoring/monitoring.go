package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	// CaptureException records the error with optional tags.
	CaptureException(err error, tags map[string]string)
	// Recover captures panics in goroutines. Call it in a defer.
	Recover()
	// Flush flushes buffered events before shutdown.
	Flush(timeout time.Duration)
}

// NopMonitor discards everything. It is the monitor of record when no DSN is
// configured.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}
