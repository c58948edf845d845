package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a binary and returns its combined output.
type Runner func(ctx context.Context, binary string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).CombinedOutput()
}

// CheckEncoders asks ffmpeg for its encoder list and reports one Status per
// requested encoder. A nil runner executes ffmpeg directly.
func CheckEncoders(ctx context.Context, ffmpegBinary string, encoders []string, run Runner) []Status {
	if run == nil {
		run = defaultRunner
	}
	results := make([]Status, 0, len(encoders))
	out, err := run(ctx, ffmpegBinary, "-hide_banner", "-encoders")
	var available map[string]bool
	if err == nil {
		available = ParseEncoders(out)
	}
	for _, name := range encoders {
		name = strings.TrimSpace(name)
		if name == "" || name == "copy" {
			continue
		}
		status := Status{
			Name:        "encoder " + name,
			Command:     ffmpegBinary,
			Description: "ffmpeg encoder",
		}
		switch {
		case err != nil:
			status.Detail = fmt.Sprintf("list encoders: %v", err)
		case available[name]:
			status.Available = true
		default:
			status.Detail = fmt.Sprintf("%s does not provide %q", ffmpegBinary, name)
		}
		results = append(results, status)
	}
	return results
}

// ParseEncoders extracts encoder names from `ffmpeg -encoders` output.
// Entries follow the legend, each line being "<flags> <name> <description>".
func ParseEncoders(output []byte) map[string]bool {
	names := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(output))
	inList := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inList {
			if strings.HasPrefix(line, "------") {
				inList = true
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		names[fields[1]] = true
	}
	return names
}
