package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"reelcut/internal/assembly"
	"reelcut/internal/pipeline"
	"reelcut/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func countKind(n int, warnWhenPositive bool) statusKind {
	if n > 0 && warnWhenPositive {
		return statusWarn
	}
	return statusInfo
}

// summaryLines renders the end-of-run report.
func summaryLines(s pipeline.Summary, individualDir string, colorize bool) []string {
	lines := renderSectionHeader("Run "+s.RunID, colorize)

	lines = append(lines, renderStatusLine("Plan", statusInfo, s.Plan.String(), colorize))

	rowDetail := fmt.Sprintf("%d read, %d valid, %d dropped", s.RowsRead, s.RowsValid, s.RowsDropped())
	if reasons := dropReasonText(s); reasons != "" {
		rowDetail += " (" + reasons + ")"
	}
	lines = append(lines, renderStatusLine("Manifest rows", countKind(s.RowsDropped(), true), rowDetail, colorize))

	resolved, missing, openFailed := s.GroupCounts()
	lines = append(lines, renderStatusLine("Groups", countKind(missing+openFailed, true),
		fmt.Sprintf("%d resolved, %d missing, %d unreadable", resolved, missing, openFailed), colorize))

	cutDetail := fmt.Sprintf("%d extracted, %d failed, %d skipped", s.CutsExtracted, s.CutsFailed, s.CutsSkipped)
	if len(s.FailedRows) > 0 {
		cutDetail += fmt.Sprintf(" (rows %s)", joinInts(s.FailedRows))
	}
	lines = append(lines, renderStatusLine("Cuts", countKind(s.CutsFailed+s.CutsSkipped, true), cutDetail, colorize))

	lines = append(lines, renderStatusLine("Resources", countKind(s.Ledger.Failed(), true), s.Ledger.String(), colorize))
	if s.PartialsRemoved > 0 {
		lines = append(lines, renderStatusLine("Swept", statusInfo, fmt.Sprintf("%d partial file(s) from an earlier run", s.PartialsRemoved), colorize))
	}
	if s.Archived > 0 {
		lines = append(lines, renderStatusLine("Archived", statusInfo, fmt.Sprintf("%d outputs", s.Archived), colorize))
	}

	switch s.Status {
	case pipeline.StatusFailed:
		msg := "no output written"
		if s.Err != nil {
			msg = s.Err.Error()
		}
		lines = append(lines, renderStatusLine("Result", statusError, msg, colorize))
	case pipeline.StatusEmpty:
		lines = append(lines, renderStatusLine("Result", statusWarn, "no cuts were extracted; nothing written", colorize))
	default:
		if s.Plan.Mode == assembly.ModeIndividual {
			kind := statusOK
			if s.OutputsFailed() > 0 {
				kind = statusWarn
			}
			lines = append(lines, renderStatusLine("Result", kind,
				fmt.Sprintf("saved %d of %d individual cuts to %s", len(s.Outputs), s.OutputsAttempted, individualDir), colorize))
		} else {
			lines = append(lines, renderStatusLine("Result", statusOK,
				fmt.Sprintf("wrote %s (%d cuts)", s.CompiledOutput, len(s.CompiledRows)), colorize))
		}
	}
	return lines
}

func dropReasonText(s pipeline.Summary) string {
	if len(s.Dropped) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.Dropped))
	for reason, n := range s.Dropped {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

func checkLines(results []preflight.Result, colorize bool) []string {
	lines := renderSectionHeader("Preflight", colorize)
	for _, r := range results {
		kind := statusOK
		switch {
		case r.Passed:
		case r.Optional:
			kind = statusWarn
		default:
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}
