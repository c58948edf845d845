package staging

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/media"
)

// Partial describes one leftover file.
type Partial struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanResult contains the outcome of a sweep.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// IsPartial reports whether a file name looks like a leftover: a partial
// output or the configured temporary audio file.
func IsPartial(name, tempAudio string) bool {
	if strings.HasPrefix(name, media.PartialPrefix) && len(name) > len(media.PartialPrefix) {
		return true
	}
	return tempAudio != "" && name == tempAudio
}

// ListPartials returns leftovers found directly inside dirs. Missing
// directories are skipped and duplicate directories are read once.
func ListPartials(dirs []string, tempAudio string) ([]Partial, []CleanupError) {
	var (
		found []Partial
		errs  []CleanupError
	)
	for _, dir := range uniqueDirs(dirs) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, CleanupError{Path: dir, Error: err})
			}
			continue
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() || !IsPartial(entry.Name(), tempAudio) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			info, err := entry.Info()
			if err != nil {
				errs = append(errs, CleanupError{Path: path, Error: err})
				continue
			}
			found = append(found, Partial{Path: path, ModTime: info.ModTime(), Size: info.Size()})
		}
	}
	return found, errs
}

// CleanPartials removes every leftover in dirs. Failures are logged and
// returned; they never stop the sweep.
func CleanPartials(dirs []string, tempAudio string, logger *slog.Logger) CleanResult {
	partials, errs := ListPartials(dirs, tempAudio)
	result := CleanResult{Errors: errs}
	for _, p := range partials {
		if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: p.Path, Error: err})
			if logger != nil {
				logging.WarnWithContext(logger, "failed to remove partial output", "partial_cleanup_failed",
					logging.String("path", p.Path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check output directory permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, p.Path)
		if logger != nil {
			logger.Info("removed partial output",
				logging.String("path", p.Path),
				logging.Duration("age", time.Since(p.ModTime)),
				logging.Int64("bytes", p.Size),
				logging.String(logging.FieldEventType, "partial_cleanup"),
			)
		}
	}
	return result
}

func uniqueDirs(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		d = filepath.Clean(d)
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}
