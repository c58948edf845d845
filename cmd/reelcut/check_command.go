package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelcut/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify binaries, encoders, paths and free space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			out := cmd.OutOrStdout()
			for _, line := range checkLines(results, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}
			return nil
		},
	}
}
