// Package logging configures slog output for stint.
//
// Two formats are supported: a compact console handler for interactive use
// (colorized when stdout is a TTY) and a JSON handler for log files or
// machine consumption. Standardized field keys keep store and controller
// logs correlatable across an operation.
package logging
