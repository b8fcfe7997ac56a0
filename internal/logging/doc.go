// Package logging assembles the structured slog loggers flightrec uses.
//
// It owns the console and JSON handlers, level parsing, and the optional log
// file under paths.log_dir. Loggers carry a session_id so every line from
// one invocation can be grouped, and components tag themselves through
// NewComponentLogger. NewNop gives tests and wiring code a logger that
// cannot fail.
//
// Command output (tables, JSON) goes to stdout; logs always go to stderr so
// the two never interleave in a pipe.
package logging
