// Package logging wraps log/slog with the attribute helpers, standardized
// field names, and output handlers shared by the daemon and CLI.
//
// Two handlers are provided: a pretty console handler for interactive use
// (with TTY-aware coloring) and a JSON handler for log files and machine
// consumption. Context helpers pull order, stage, and session identifiers
// out of a context.Context and attach them as structured fields.
package logging
