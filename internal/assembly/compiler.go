package assembly

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"reelcut/internal/extract"
	"reelcut/internal/failure"
	"reelcut/internal/ledger"
	"reelcut/internal/logging"
	"reelcut/internal/media"
)

// CompiledResult describes the compiled output of a run.
type CompiledResult struct {
	// Empty is set when no cut was extracted; nothing is written and the run
	// still succeeds.
	Empty      bool
	OutputPath string
	// Rows lists the manifest rows in final segment order.
	Rows    []int
	Written bool
	Err     error
}

// Compiler accumulates cuts for a single concatenated output.
type Compiler struct {
	engine     media.Engine
	ledger     *ledger.Ledger
	plan       Plan
	outputPath string
	opts       media.WriteOptions
	logger     *slog.Logger
	cuts       []extract.ExtractedCut
}

// NewCompiler returns a Compiler writing to outputPath.
func NewCompiler(engine media.Engine, l *ledger.Ledger, plan Plan, outputPath string, opts media.WriteOptions, logger *slog.Logger) *Compiler {
	return &Compiler{
		engine:     engine,
		ledger:     l,
		plan:       plan,
		outputPath: outputPath,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "assembly"),
	}
}

// Add appends cut in group-processing order. The cut stays open until the
// ledger closes it at the end of the run.
func (c *Compiler) Add(cut extract.ExtractedCut) {
	c.cuts = append(c.cuts, cut)
}

// Finish orders, concatenates and writes the accumulated cuts. The compiled
// handle is tracked by the ledger; nothing here closes handles. A cancelled
// ctx fails the output without touching the engine.
func (c *Compiler) Finish(ctx context.Context) CompiledResult {
	result := CompiledResult{OutputPath: c.outputPath}
	if len(c.cuts) == 0 {
		result.Empty = true
		c.logger.Info("no cuts extracted; compiled output not written")
		return result
	}
	if err := ctx.Err(); err != nil {
		result.Err = failure.Wrap(failure.ErrAssembly, "assembly", "cancelled", c.outputPath, err)
		return result
	}

	ordered := append([]extract.ExtractedCut(nil), c.cuts...)
	if c.plan.Order == OrderRandom {
		Shuffle(ordered, c.plan.Seed)
		c.logger.Info("shuffled cuts", logging.Int("cuts", len(ordered)), logging.Int64("seed", c.plan.Seed))
	} else {
		c.logger.Info("keeping manifest order", logging.Int("cuts", len(ordered)))
	}

	handles := make([]media.Handle, 0, len(ordered))
	for _, cut := range ordered {
		handles = append(handles, cut.Handle)
		result.Rows = append(result.Rows, cut.SourceRow)
	}

	if dir := filepath.Dir(c.outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			result.Err = failure.Wrap(failure.ErrAssembly, "assembly", "prepare output", dir, err)
			return result
		}
	}

	joined, err := c.engine.Concatenate(ctx, handles)
	if err != nil {
		result.Err = failure.Wrap(failure.ErrAssembly, "assembly", "concatenate", "", err)
		return result
	}
	c.ledger.Track(joined)

	c.logger.Info("writing compiled output", logging.String("path", c.outputPath), logging.Int("segments", len(handles)))
	if err := c.engine.Write(ctx, joined, c.outputPath, c.opts); err != nil {
		result.Err = failure.Wrap(failure.ErrAssembly, "assembly", "write", c.outputPath, err)
		return result
	}
	result.Written = true
	return result
}
