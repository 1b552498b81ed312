package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var dataFlag string
	var backendFlag string

	ctx := newCommandContext(&configFlag, &dataFlag, &backendFlag)

	rootCmd := &cobra.Command{
		Use:           "shelf",
		Short:         "Track a book collection and its loans",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&dataFlag, "data", "d", "", "Library data file (overrides storage.path)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: json or sqlite (overrides storage.backend)")

	rootCmd.AddCommand(newShellCommand(ctx))
	for _, cmd := range newBookCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
