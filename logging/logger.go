// Package logging provides the *slog.Logger used by slidemodel.
package logging

import (
	"log/slog"
	"sync/atomic"
)

// logger holds the package-level logger. A nil value makes Logger return a
// discard logger, so the library is silent unless a host opts in.
var logger atomic.Pointer[slog.Logger]

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// SetLogger configures the package-level logger. Pass nil to disable
// logging.
//
// SetLogger is safe for concurrent use.
//
//	handler := logging.NewBufferedLogHandler(nil)
//	logging.SetLogger(slog.New(handler))
//	// ... run extraction ...
//	fmt.Println(handler.String())
func SetLogger(sl *slog.Logger) {
	if sl == nil {
		logger.Store(newDiscardLogger())
	} else {
		logger.Store(sl)
	}
}

// Logger returns the package-level logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	l := logger.Load()
	if l == nil {
		l = newDiscardLogger()
		logger.Store(l)
	}
	return l
}

// WithComponent returns the package logger with the component attribute set.
func WithComponent(name string) *slog.Logger {
	return Logger().With(slog.String("component", name))
}
