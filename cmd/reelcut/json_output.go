package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"reelcut/internal/pipeline"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type summaryView struct {
	RunID          string         `json:"run_id"`
	Status         string         `json:"status"`
	Mode           string         `json:"mode"`
	Order          string         `json:"order"`
	Seed           int64          `json:"seed,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	RowsRead       int            `json:"rows_read"`
	RowsValid      int            `json:"rows_valid"`
	Dropped        map[string]int `json:"dropped,omitempty"`
	GroupsResolved int            `json:"groups_resolved"`
	GroupsMissing  int            `json:"groups_missing"`
	GroupsOpenFail int            `json:"groups_open_failed"`
	CutsExtracted  int            `json:"cuts_extracted"`
	CutsFailed     int            `json:"cuts_failed"`
	CutsSkipped    int            `json:"cuts_skipped"`
	FailedRows     []int          `json:"failed_rows,omitempty"`
	Outputs        []string       `json:"outputs"`
	OutputsFailed  int            `json:"outputs_failed"`
	Archived       int            `json:"archived"`
	CloseFailures  int            `json:"close_failures"`
	ErrorKind      string         `json:"error_kind,omitempty"`
	Error          string         `json:"error,omitempty"`
}

func newSummaryView(s pipeline.Summary) summaryView {
	resolved, missing, openFailed := s.GroupCounts()
	view := summaryView{
		RunID:          s.RunID,
		Status:         string(s.Status),
		Mode:           string(s.Plan.Mode),
		Order:          string(s.Plan.Order),
		Seed:           s.Plan.Seed,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
		RowsRead:       s.RowsRead,
		RowsValid:      s.RowsValid,
		GroupsResolved: resolved,
		GroupsMissing:  missing,
		GroupsOpenFail: openFailed,
		CutsExtracted:  s.CutsExtracted,
		CutsFailed:     s.CutsFailed,
		CutsSkipped:    s.CutsSkipped,
		FailedRows:     s.FailedRows,
		Outputs:        s.Outputs,
		OutputsFailed:  s.OutputsFailed(),
		Archived:       s.Archived,
		CloseFailures:  s.Ledger.Failed(),
	}
	if view.Outputs == nil {
		view.Outputs = []string{}
	}
	if len(s.Dropped) > 0 {
		view.Dropped = make(map[string]int, len(s.Dropped))
		for reason, n := range s.Dropped {
			view.Dropped[string(reason)] = n
		}
	}
	if s.Err != nil {
		view.ErrorKind = string(s.ErrorKind())
		view.Error = s.Err.Error()
	}
	return view
}
