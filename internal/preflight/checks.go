package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"reelcut/internal/config"
	"reelcut/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckReadableFile verifies that path is a regular file the process can read.
func CheckReadableFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckWritableLocation verifies that path is writable, or that it can be
// created because its nearest existing ancestor is writable.
func CheckWritableLocation(name, path string) Result {
	existing, err := nearestExisting(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	result := CheckDirectoryAccess(name, existing)
	if existing != path && result.Passed {
		result.Detail = fmt.Sprintf("%s (will be created under %s)", path, existing)
	}
	return result
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minBytes available to unprivileged users.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	existing, err := nearestExisting(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	var st unix.Statfs_t
	if err := unix.Statfs(existing, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", existing, err)}
	}
	free := uint64(st.Bavail) * uint64(st.Bsize)
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s free, need %s)", existing, formatBytes(free), formatBytes(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s free)", existing, formatBytes(free))}
}

func nearestExisting(path string) (string, error) {
	current := filepath.Clean(path)
	for {
		if _, err := os.Stat(current); err == nil {
			return current, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat: %w", err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing ancestor")
		}
		current = parent
	}
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// CheckSystemDeps evaluates all binary dependencies for the given config.
// The ffmpeg encoders backing the configured codecs are checked as well.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Engine.FFmpegBinary,
			Description: "Required for cutting and writing outputs",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Engine.FFprobeBinary,
			Description: "Required for source inspection",
		},
	}
	if cfg.Archive.Enabled {
		// The Drapto library resolves ffmpeg from PATH, not from engine config.
		requirements = append(requirements, deps.Requirement{
			Name:        "FFmpeg (archive)",
			Command:     "ffmpeg",
			Description: "Used by Drapto for archival encodes",
		})
	}
	statuses := deps.CheckBinaries(requirements)
	if !statuses[0].Available {
		return statuses
	}

	encoders := []string{cfg.Engine.VideoCodec, cfg.Engine.AudioCodec}
	if cfg.Archive.Enabled {
		encoders = append(encoders, "libsvtav1")
	}
	return append(statuses, deps.CheckEncoders(ctx, statuses[0].Command, encoders, nil)...)
}

// MissingBinaries reports the engine binaries that cannot be found. The run
// command refuses to start while any are missing.
func MissingBinaries(cfg *config.Config) []deps.Status {
	return deps.MissingRequired(deps.CheckBinaries([]deps.Requirement{
		{Name: "FFmpeg", Command: cfg.Engine.FFmpegBinary},
		{Name: "FFprobe", Command: cfg.Engine.FFprobeBinary},
	}))
}
