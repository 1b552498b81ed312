package main

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var outputJSON = jsoniter.Config{
	IndentionStep: 2,
	EscapeHTML:    false,
}.Froze()

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := outputJSON.NewEncoder(cmd.OutOrStdout())
	return enc.Encode(v)
}
