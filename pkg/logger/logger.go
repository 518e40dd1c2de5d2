package logger

import (
	"log"
	"log/slog"
)

// New returns a stdlib *log.Logger that forwards every line to base at error
// level, tagged with the component name. It serves APIs such as
// http.Server.ErrorLog that still expect the standard logger.
func New(base *slog.Logger, component string) *log.Logger {
	if base == nil {
		base = slog.Default()
	}
	return slog.NewLogLogger(base.With("component", component).Handler(), slog.LevelError)
}
