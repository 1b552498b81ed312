// Package snapshot reads and writes whole-collection snapshots of the catalog.
//
// Two backends implement catalog.Source and catalog.Sink:
//
//   - File stores a UTF-8 JSON object keyed by book ID, indented by four
//     spaces, with non-ASCII text left unescaped. Keys keep the collection's
//     insertion order in both directions.
//   - SQLite stores the same rows in a books table, ordered by position.
//
// A missing data file is the normal first-run case and reads as an empty
// collection. Anything that exists but cannot be decoded is reported as
// ErrMalformed; callers treat that as fatal rather than starting from an
// empty collection and overwriting the user's data on the next save.
//
// Lock guards a data file for the length of a CLI session.
package snapshot
