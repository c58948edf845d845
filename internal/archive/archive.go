package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	draptolib "github.com/five82/drapto"

	"reelcut/internal/logging"
)

// Encoder produces an archival copy of inputPath inside outputDir and returns
// the path it wrote.
type Encoder interface {
	Encode(ctx context.Context, inputPath, outputDir string) (string, error)
}

// Option customizes an Archiver.
type Option func(*Archiver)

// WithEncoder replaces the Drapto encoder, mainly for tests.
func WithEncoder(e Encoder) Option {
	return func(a *Archiver) {
		if e != nil {
			a.encoder = e
		}
	}
}

// Archiver copies run outputs into the archive directory.
type Archiver struct {
	dir     string
	encoder Encoder
	logger  *slog.Logger
}

// New returns an Archiver writing below dir.
func New(dir string, logger *slog.Logger, opts ...Option) *Archiver {
	component := logging.NewComponentLogger(logger, "archive")
	a := &Archiver{
		dir:     dir,
		encoder: &draptoEncoder{logger: component},
		logger:  component,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Archive encodes every output in turn. It returns how many copies were
// written and the joined errors of the ones that were not.
func (a *Archiver) Archive(ctx context.Context, outputs []string) (int, error) {
	if len(outputs) == 0 {
		return 0, nil
	}
	if strings.TrimSpace(a.dir) == "" {
		return 0, errors.New("archive directory required")
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return 0, fmt.Errorf("create archive directory: %w", err)
	}

	var errs []error
	archived := 0
	for _, output := range outputs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		path, err := a.encoder.Encode(ctx, output, a.dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("archive %s: %w", filepath.Base(output), err))
			continue
		}
		archived++
		a.logger.Info("archived output", logging.String("input", output), logging.String("archive", path))
	}
	return archived, errors.Join(errs...)
}

type draptoEncoder struct {
	logger *slog.Logger
}

func (d *draptoEncoder) Encode(ctx context.Context, inputPath, outputDir string) (string, error) {
	if inputPath == "" {
		return "", errors.New("input path required")
	}
	encoder, err := draptolib.New(draptolib.WithResponsive())
	if err != nil {
		return "", err
	}
	if _, err := encoder.EncodeWithReporter(ctx, inputPath, outputDir, newLogReporter(d.logger)); err != nil {
		return "", err
	}
	return ArchivePath(inputPath, outputDir), nil
}

// ArchivePath is where Drapto writes the archival copy of inputPath.
func ArchivePath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(strings.TrimSpace(outputDir), stem+".mkv")
}
