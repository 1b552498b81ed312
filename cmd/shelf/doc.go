// Package main hosts the shelf CLI entrypoint and command graph.
//
// Running shelf with no arguments opens the interactive library menu. The
// remaining subcommands run a single catalog operation against the data file
// and exit, which keeps the tool scriptable. Configuration resolution, the
// session lock, and logger setup live in the command context so individual
// commands only deal with the catalog and its presentation.
package main
