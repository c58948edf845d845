package failure

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFatalConfig stops a run before any media I/O.
	ErrFatalConfig    = errors.New("fatal configuration error")
	ErrResolutionMiss = errors.New("resolution miss")
	ErrExtraction     = errors.New("extraction failure")
	ErrAssembly       = errors.New("assembly failure")
	// ErrCleanup is logged and counted, never returned as a run result.
	ErrCleanup = errors.New("cleanup failure")
)

// Kind names an error class for summaries and persisted history.
type Kind string

const (
	KindNone           Kind = ""
	KindFatalConfig    Kind = "fatal_config"
	KindResolutionMiss Kind = "resolution_miss"
	KindExtraction     Kind = "extraction"
	KindAssembly       Kind = "assembly"
	KindCleanup        Kind = "cleanup"
	KindUnknown        Kind = "unknown"
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrFatalConfig
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps err to its Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrFatalConfig):
		return KindFatalConfig
	case errors.Is(err, ErrResolutionMiss):
		return KindResolutionMiss
	case errors.Is(err, ErrExtraction):
		return KindExtraction
	case errors.Is(err, ErrAssembly):
		return KindAssembly
	case errors.Is(err, ErrCleanup):
		return KindCleanup
	default:
		return KindUnknown
	}
}

// IsFatal reports whether err must halt the run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatalConfig)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "run failure"
	}
	return strings.Join(parts, ": ")
}
