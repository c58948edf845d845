package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reelcut/internal/config"
	"reelcut/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRuns(runs))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "List the files a run wrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				outputs, err := store.Outputs(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(outputs) == 0 {
					fmt.Fprintf(out, "Run %s wrote no outputs\n", args[0])
					return nil
				}
				for _, path := range outputs {
					fmt.Fprintln(out, path)
				}
				return nil
			})
		},
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a given age",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			return withHistoryStore(ctx, func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age threshold")
	return cmd
}

func withHistoryStore(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := requireHistory(cfg); err != nil {
		return err
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func requireHistory(cfg *config.Config) error {
	if !cfg.History.Enabled {
		return errors.New("run history is disabled (set history.enabled = true)")
	}
	return nil
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		mode := r.Mode
		if r.Order == "random" {
			mode = fmt.Sprintf("%s/random seed=%d", r.Mode, r.Seed)
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			mode,
			r.Status,
			strconv.Itoa(r.CutsExtracted),
			strconv.Itoa(r.CutsFailed + r.CutsSkipped),
			fmt.Sprintf("%d/%d", r.OutputsWritten, r.OutputsAttempted),
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Plan", "Status", "Cuts", "Lost", "Outputs"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
