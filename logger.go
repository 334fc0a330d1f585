package vger

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/vger/atlas"
	"github.com/gogpu/vger/scene"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

func slogger() *slog.Logger { return loggerPtr.Load() }

// SetLogger configures the logger for vger and its sub-packages.
// By default vger produces no log output. Pass nil to restore that.
//
// Log levels used by vger:
//   - [slog.LevelDebug]: per-frame diagnostics (slot reuse, atlas copies, uploads)
//   - [slog.LevelInfo]: lifecycle events (renderer created, closed)
//   - [slog.LevelWarn]: non-fatal issues (atlas region dropped, primitives over capacity)
//
// Example:
//
//	vger.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	atlas.SetLogger(l)
	scene.SetLogger(l)
}

// Logger returns the current logger used by vger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
