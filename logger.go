package rendergraph

import (
	"log/slog"

	"github.com/gogpu/rendergraph/hal"
)

// SetLogger configures the logger used for compile and execute
// diagnostics. Forwards to hal.SetLogger so the render graph and its
// device backends share one logger configuration without introducing
// an import cycle between this package and hal.
func SetLogger(l *slog.Logger) {
	hal.SetLogger(l)
}

// logger returns the shared logger for internal use.
func logger() *slog.Logger {
	return hal.Logger()
}
