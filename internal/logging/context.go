package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldItemID is the standardized structured logging key for schedule item identifiers.
	FieldItemID = "item_id"
	// FieldCorrelationID is the standardized structured logging key for per-operation correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// WithComponent tags a logger with a component name, falling back to a
// no-op logger when nil is supplied.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}
