// Package logging constructs the slog loggers used across shelfmark.
//
// It offers a console handler for interactive use and a JSON handler for
// machine consumption, plus thin attr helpers so call sites stay terse.
// Detection and batch code emit decision_summary events through these helpers
// so classification choices stay observable without a debugger.
package logging
