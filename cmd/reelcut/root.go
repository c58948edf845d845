package main

import (
	"github.com/spf13/cobra"
)

type rootOption func(*commandContext)

// withEngineFactory replaces the ffmpeg engine, used by tests.
func withEngineFactory(f engineFactory) rootOption {
	return func(c *commandContext) {
		c.newEngine = f
	}
}

func newRootCommand(opts ...rootOption) *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)
	for _, opt := range opts {
		opt(ctx)
	}

	rootCmd := &cobra.Command{
		Use:           "reelcut",
		Short:         "Cut and assemble video segments from a CSV manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newPlanCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
