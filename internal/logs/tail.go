package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"reelcut/internal/logging"
)

const maxLineBytes = 1024 * 1024

// Matcher selects the lines to show. A nil Matcher accepts every line.
type Matcher func(line string) bool

// ForRun matches records carrying the given run ID.
func ForRun(runID string) Matcher {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil
	}
	console := logging.FieldRunID + "=" + runID
	jsonForm := `"` + logging.FieldRunID + `":"` + runID + `"`
	return func(line string) bool {
		return strings.Contains(line, console) || strings.Contains(line, jsonForm)
	}
}

func (m Matcher) accept(line string) bool {
	return m == nil || m(line)
}

// Last returns up to n matching lines from the end of path, plus the offset
// of the end of the file for a subsequent Follow. A missing file yields no
// lines and offset zero.
func Last(path string, n int, match Matcher) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if info, err := file.Stat(); err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	} else if info.IsDir() {
		return nil, 0, fmt.Errorf("log path %q is a directory", path)
	}

	var ring []string
	if n > 0 {
		ring = make([]string, 0, n)
	}
	offset, err := scanLines(file, func(line string) {
		if n <= 0 || !match.accept(line) {
			return
		}
		if len(ring) == n {
			copy(ring, ring[1:])
			ring = ring[:n-1]
		}
		ring = append(ring, line)
	})
	if err != nil {
		return nil, 0, err
	}
	return ring, offset, nil
}

// Follow emits matching lines appended after offset, polling every interval
// until ctx ends. A truncated file is read again from the start.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, match Matcher, emit func(string)) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, match, emit)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64, match Matcher, emit func(string)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	read, err := scanLines(file, func(line string) {
		if match.accept(line) {
			emit(line)
		}
	})
	if err != nil {
		return offset, err
	}
	return offset + read, nil
}

// scanLines feeds complete lines to fn and returns the number of bytes
// consumed. A trailing line without newline is left for the next read.
func scanLines(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return consumed, nil
		}
		if err != nil {
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		line = strings.TrimRight(line, "\r\n")
		if len(line) > maxLineBytes {
			line = line[:maxLineBytes]
		}
		fn(line)
	}
}
