package genesis

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records. Enabled
// returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can race with logging from a frame in flight.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for this package and its
// sub-packages. By default no log output is produced. Pass nil to
// restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame diagnostics (pruned widgets, cache fills)
//   - [slog.LevelWarn]: recoverable substitutions (placeholder glyphs,
//     unsupported raster formats, failed widget draws)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (backend/opengl,
// backend/soft, font, wave) call this to share the configuration
// without import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
