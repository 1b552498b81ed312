// Package logging assembles structured slog loggers used across shelf.
//
// It owns the console and JSON handlers, maps configured levels and output
// paths onto writers, and provides attribute helpers with the standard field
// names (component, session_id, book_id). A no-op logger is available for
// tests and for wiring code that must not fail.
package logging
