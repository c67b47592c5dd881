package morph

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for morph and its sub-packages.
// By default morph produces no log output. Pass nil to silence it again.
//
// Log levels used by morph:
//   - [slog.LevelDebug]: state machine transitions, per-frame timing in debug mode
//   - [slog.LevelInfo]: lifecycle events (shapes generated, window opened)
//   - [slog.LevelWarn]: recoverable problems (screenshot write failures,
//     rejected pointer projections)
//
// Example:
//
//	morph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. It never returns nil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
