// Package catalog holds the in-memory book collection and the loan state of
// every title in it.
//
// A Record is one catalogued title with its copy count and the number of
// copies currently lent out. The Store owns all Records, keeps them in
// insertion order, and exposes add, search, lend, return, listing and
// aggregate statistics. Negative outcomes such as an unknown ID or a title
// with no copies left are reported through the sentinel errors in errors.go;
// they are expected results, not failures of the session.
//
// The Store never touches the filesystem on its own. Load and Save move the
// whole collection through a Source or Sink, which the snapshot package
// implements for JSON files and SQLite databases.
package catalog
