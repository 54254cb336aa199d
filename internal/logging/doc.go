// Package logging assembles structured slog loggers and formatting helpers used
// across tabletcycle.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the field keys every component logs with so that a
// coordinator's session can be followed across startup, cycle events, and
// shutdown. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
