package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Parse warnings, store writes and worker lifecycle
// events all route through it, so quiet CLI modes and tests can redirect or
// mute diagnostics without touching the report output streams.
var Logf func(format string, v ...interface{}) = log.Printf

// Discard is a no-op logger suitable for SetLogger.
var Discard = func(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = Discard
		return
	}
	Logf = f
}
