package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"reelcut/internal/archive"
	"reelcut/internal/assembly"
	"reelcut/internal/config"
	"reelcut/internal/failure"
	"reelcut/internal/history"
	"reelcut/internal/logging"
	"reelcut/internal/pipeline"
	"reelcut/internal/prompt"
)

type runOverrides struct {
	mode          string
	order         string
	seed          int64
	manifest      string
	sourceDir     string
	output        string
	individualDir string
	archive       bool
	noHistory     bool
	jsonOutput    bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runOverrides

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract every cut in the manifest and write the outputs",
		Long: `Load the manifest, resolve each group to a source file, extract its cuts and
write either one compiled video or one file per cut.

When neither --mode nor output.mode is set and stdin is a terminal, reelcut
asks for the mode (and, for a compiled video, the order). Otherwise it writes
a compiled video in manifest order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyRunOverrides(cmd, *loaded, flags)
			if err != nil {
				return err
			}
			plan, err := resolvePlan(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			summary, err := executeRun(cmd.Context(), ctx, cfg, plan)
			if err != nil {
				if failure.IsFatal(err) {
					return fmt.Errorf("run not started: %w", err)
				}
				return err
			}
			if flags.jsonOutput {
				if err := writeJSON(cmd, newSummaryView(summary)); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, line := range summaryLines(summary, cfg.Paths.IndividualDir, shouldColorize(out)) {
					fmt.Fprintln(out, line)
				}
			}
			if summary.Failed() {
				return fmt.Errorf("run failed: %w", summary.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.mode, "mode", "", "Output mode: compiled or individual")
	cmd.Flags().StringVar(&flags.order, "order", "", "Compiled order: chronological or random")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "Seed for random order (0 picks a fresh seed)")
	cmd.Flags().StringVar(&flags.manifest, "manifest", "", "Manifest CSV path")
	cmd.Flags().StringVar(&flags.sourceDir, "sources", "", "Directory holding source videos")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Compiled output path")
	cmd.Flags().StringVar(&flags.individualDir, "individual-dir", "", "Directory for individual cut files")
	cmd.Flags().BoolVar(&flags.archive, "archive", false, "Archive written outputs with Drapto")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not record this run in the history store")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

// applyRunOverrides copies flag values over the loaded config and brings the
// result back to canonical form.
func applyRunOverrides(cmd *cobra.Command, cfg config.Config, flags runOverrides) (*config.Config, error) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("mode") {
		cfg.Output.Mode = flags.mode
	}
	if set("order") {
		cfg.Output.Order = flags.order
	}
	if set("seed") {
		cfg.Output.Seed = flags.seed
	}
	if set("manifest") {
		cfg.Paths.Manifest = flags.manifest
	}
	if set("sources") {
		cfg.Paths.SourceDir = flags.sourceDir
	}
	if set("output") {
		cfg.Paths.CompiledOutput = flags.output
	}
	if set("individual-dir") {
		cfg.Paths.IndividualDir = flags.individualDir
	}
	if set("archive") {
		cfg.Archive.Enabled = flags.archive
	}
	if flags.noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Normalize(); err != nil {
		return nil, fmt.Errorf("apply flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("apply flags: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolvePlan fixes the plan before any processing. An unset mode is asked
// for on a terminal and defaults to compiled chronological elsewhere.
func resolvePlan(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (assembly.Plan, error) {
	mode, order := cfg.Output.Mode, cfg.Output.Order
	if strings.TrimSpace(mode) == "" {
		if isTerminalReader(in) {
			choice, err := prompt.Ask(ctx, in, out)
			if err != nil {
				if errors.Is(err, prompt.ErrCancelled) {
					return assembly.Plan{}, context.Canceled
				}
				return assembly.Plan{}, err
			}
			mode, order = string(choice.Mode), string(choice.Order)
		} else {
			mode, order = string(assembly.ModeCompiled), string(assembly.OrderChronological)
		}
	}
	plan, err := assembly.NewPlan(mode, order, cfg.Output.Seed)
	if err != nil {
		return assembly.Plan{}, fmt.Errorf("output plan: %w", err)
	}
	return plan, nil
}

func executeRun(ctx context.Context, cc *commandContext, cfg *config.Config, plan assembly.Plan) (pipeline.Summary, error) {
	runID := uuid.NewString()
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("init logging: %w", err)
	}
	logger = logging.WithRunID(logger, runID)

	engine, err := cc.newEngine(cfg, logger)
	if err != nil {
		return pipeline.Summary{}, err
	}
	opts, err := pipeline.OptionsFromConfig(cfg, plan)
	if err != nil {
		return pipeline.Summary{}, err
	}

	deps := pipeline.Deps{
		Engine: engine,
		Logger: logger,
		RunID:  runID,
	}
	if cfg.Archive.Enabled {
		deps.Archiver = archive.New(cfg.Archive.Dir, logger)
	}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			logging.WarnWithContext(logger, "history store unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in reelcut history"),
			)
		} else {
			defer store.Close()
			deps.Recorder = store
		}
	}

	return pipeline.Run(ctx, opts, deps)
}
