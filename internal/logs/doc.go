// Package logs reads application log files for CLI diagnostics.
//
// It supports bounded "last N lines" reads and a polling follow mode that
// stops when the caller's context is cancelled. Truncated files are detected
// and reading restarts from the new end instead of erroring.
package logs
