package oteladapters

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// NewSlogBridgeLogger returns a *slog.Logger whose records go to the global OpenTelemetry
// LoggerProvider with trace and span ids attached. It satisfies eventstore.Logger and
// eventstore.ContextualLogger.
func NewSlogBridgeLogger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}
