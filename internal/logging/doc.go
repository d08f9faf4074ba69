// Package logging builds the slog loggers used across clipgrep.
//
// Two handler formats are supported: a compact console format intended for
// interactive use (timestamp, level, component prefix, key=value attrs) and
// plain slog JSON for log files. Engine packages receive a *slog.Logger and
// never construct their own handlers; tests use NewNop.
package logging
