package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"reelcut/internal/assembly"
	"reelcut/internal/pipeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var manifestPath string
	var sourceDir string
	var showDropped bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show how the manifest resolves without touching any media",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			if cmd.Flags().Changed("manifest") {
				cfg.Paths.Manifest = manifestPath
			}
			if cmd.Flags().Changed("sources") {
				cfg.Paths.SourceDir = sourceDir
			}
			if err := cfg.Normalize(); err != nil {
				return fmt.Errorf("apply flags: %w", err)
			}

			mode := cfg.Output.Mode
			if mode == "" {
				mode = string(assembly.ModeCompiled)
			}
			plan, err := assembly.NewPlan(mode, cfg.Output.Order, cfg.Output.Seed)
			if err != nil {
				return fmt.Errorf("output plan: %w", err)
			}
			opts, err := pipeline.OptionsFromConfig(&cfg, plan)
			if err != nil {
				return err
			}
			preview, err := pipeline.PreviewRun(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderPreview(preview))
			if showDropped && len(preview.Manifest.Dropped) > 0 {
				fmt.Fprintln(out)
				fmt.Fprint(out, renderDropped(preview))
			}
			fmt.Fprintf(out, "\n%d rows read, %d valid, %d dropped; %d cuts from %d resolved groups, %d groups missing\n",
				preview.Manifest.RowsRead, len(preview.Manifest.Valid), len(preview.Manifest.Dropped),
				preview.CutCount(), len(preview.Resolved), len(preview.Missing))
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest CSV path")
	cmd.Flags().StringVar(&sourceDir, "sources", "", "Directory holding source videos")
	cmd.Flags().BoolVar(&showDropped, "dropped", false, "List dropped manifest rows")
	return cmd
}

func renderPreview(p pipeline.Preview) string {
	rows := make([][]string, 0, len(p.Resolved)+len(p.Missing))
	for _, g := range p.Resolved {
		rows = append(rows, []string{g.GroupKey, filepath.Base(g.SourcePath), strconv.Itoa(len(g.Cuts))})
	}
	for _, g := range p.Missing {
		rows = append(rows, []string{g.Key, "(not found)", strconv.Itoa(len(g.Cuts))})
	}
	return renderTable(
		[]string{"Group", "Source", "Cuts"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
		"", "Total", strconv.Itoa(p.CutCount()),
	) + "\n"
}

func renderDropped(p pipeline.Preview) string {
	rows := make([][]string, 0, len(p.Manifest.Dropped))
	for _, d := range p.Manifest.Dropped {
		rows = append(rows, []string{strconv.Itoa(d.SourceRow), d.GroupKey, string(d.Reason), d.Detail})
	}
	return renderTable(
		[]string{"Row", "Group", "Reason", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	) + "\n"
}
