package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"reelcut/internal/failure"
)

const (
	DefaultStartColumn = "COMEÇO DO CORTE"
	DefaultEndColumn   = "FINAL DO CORTE"
)

// Options controls how the CSV header and rows are interpreted.
type Options struct {
	StartColumn string
	EndColumn   string
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.StartColumn) == "" {
		o.StartColumn = DefaultStartColumn
	}
	if strings.TrimSpace(o.EndColumn) == "" {
		o.EndColumn = DefaultEndColumn
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	return o
}

// CutSpec is one validated cut request.
type CutSpec struct {
	GroupKey string
	Start    time.Duration
	End      time.Duration
	// SourceRow is the CSV line the cut was read from; the header is line 1.
	SourceRow int
}

// Duration returns End - Start, always positive for loaded specs.
func (c CutSpec) Duration() time.Duration {
	return c.End - c.Start
}

// DropReason explains why a row was excluded from the valid set.
type DropReason string

const (
	DropEmptyKey            DropReason = "empty_key"
	DropBadStart            DropReason = "bad_start"
	DropBadEnd              DropReason = "bad_end"
	DropNonPositiveDuration DropReason = "non_positive_duration"
	DropShortRow            DropReason = "short_row"
	DropMalformedRow        DropReason = "malformed_row"
)

// DroppedRow records an excluded row for diagnostics.
type DroppedRow struct {
	SourceRow int
	GroupKey  string
	Reason    DropReason
	Detail    string
}

// Group is the ordered list of cuts sharing one group key.
type Group struct {
	Key  string
	Cuts []CutSpec
}

// Manifest is the result of loading a cut list.
type Manifest struct {
	Path        string
	GroupColumn string
	RowsRead    int
	Valid       []CutSpec
	Dropped     []DroppedRow
}

// Groups returns valid cuts grouped by key in order of first appearance.
// Cuts within a group keep manifest order.
func (m Manifest) Groups() []Group {
	index := make(map[string]int)
	var groups []Group
	for _, spec := range m.Valid {
		i, ok := index[spec.GroupKey]
		if !ok {
			i = len(groups)
			index[spec.GroupKey] = i
			groups = append(groups, Group{Key: spec.GroupKey})
		}
		groups[i].Cuts = append(groups[i].Cuts, spec)
	}
	return groups
}

// DropCounts tallies dropped rows per reason.
func (m Manifest) DropCounts() map[DropReason]int {
	counts := make(map[DropReason]int, len(m.Dropped))
	for _, d := range m.Dropped {
		counts[d.Reason]++
	}
	return counts
}

// Load reads and validates the manifest at path.
func Load(path string, opts Options) (Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Manifest{}, failure.Wrap(failure.ErrFatalConfig, "manifest", "open", path, err)
	}
	if info.IsDir() {
		return Manifest{}, failure.Wrap(failure.ErrFatalConfig, "manifest", "open", path+" is a directory", nil)
	}
	file, err := os.Open(path)
	if err != nil {
		return Manifest{}, failure.Wrap(failure.ErrFatalConfig, "manifest", "open", path, err)
	}
	defer file.Close()

	m, err := Parse(file, opts)
	if err != nil {
		return Manifest{}, err
	}
	m.Path = path
	return m, nil
}

// Parse reads a manifest from r.
func Parse(r io.Reader, opts Options) (Manifest, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(r)
	reader.Comma = opts.Comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Manifest{}, failure.Wrap(failure.ErrFatalConfig, "manifest", "header", "manifest is empty", nil)
	}
	if err != nil {
		return Manifest{}, failure.Wrap(failure.ErrFatalConfig, "manifest", "header", "", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimSpace(strings.TrimPrefix(header[0], "\ufeff"))

	startIdx := columnIndex(header, opts.StartColumn)
	endIdx := columnIndex(header, opts.EndColumn)
	var missing []string
	if startIdx < 0 {
		missing = append(missing, opts.StartColumn)
	}
	if endIdx < 0 {
		missing = append(missing, opts.EndColumn)
	}
	if len(missing) > 0 {
		return Manifest{}, failure.Wrap(failure.ErrFatalConfig, "manifest", "header",
			fmt.Sprintf("missing required column(s) %q", missing), nil)
	}
	if startIdx == 0 || endIdx == 0 {
		return Manifest{}, failure.Wrap(failure.ErrFatalConfig, "manifest", "header",
			"first column is the group key and cannot be a time column", nil)
	}

	m := Manifest{GroupColumn: header[0]}
	need := max(startIdx, endIdx)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			m.RowsRead++
			m.drop(parseErr.StartLine, "", DropMalformedRow, parseErr.Err.Error())
			continue
		}
		if err != nil {
			return Manifest{}, failure.Wrap(failure.ErrFatalConfig, "manifest", "read", "", err)
		}
		m.RowsRead++
		line, _ := reader.FieldPos(0)

		key := strings.TrimSpace(record[0])
		if len(record) <= need {
			m.drop(line, key, DropShortRow, fmt.Sprintf("%d fields, need %d", len(record), need+1))
			continue
		}
		if key == "" {
			m.drop(line, key, DropEmptyKey, "")
			continue
		}
		start, err := ParseTimecode(record[startIdx])
		if err != nil {
			m.drop(line, key, DropBadStart, err.Error())
			continue
		}
		end, err := ParseTimecode(record[endIdx])
		if err != nil {
			m.drop(line, key, DropBadEnd, err.Error())
			continue
		}
		if end <= start {
			m.drop(line, key, DropNonPositiveDuration,
				fmt.Sprintf("%s -> %s", FormatTimecode(start), FormatTimecode(end)))
			continue
		}
		m.Valid = append(m.Valid, CutSpec{GroupKey: key, Start: start, End: end, SourceRow: line})
	}
	return m, nil
}

func (m *Manifest) drop(line int, key string, reason DropReason, detail string) {
	m.Dropped = append(m.Dropped, DroppedRow{SourceRow: line, GroupKey: key, Reason: reason, Detail: detail})
}

func columnIndex(header []string, name string) int {
	name = strings.TrimSpace(name)
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}
