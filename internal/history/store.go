package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reelcut/internal/pipeline"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one persisted run.
type Run struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	ManifestPath     string
	Mode             string
	Order            string
	Seed             int64
	Status           string
	ErrorKind        string
	ErrorMessage     string
	RowsRead         int
	RowsValid        int
	CutsExtracted    int
	CutsFailed       int
	CutsSkipped      int
	OutputsAttempted int
	OutputsWritten   int
	Archived         int
	CloseFailures    int
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset history)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := range busyRetryAttempts {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Record persists summary with its groups and outputs in one transaction.
func (s *Store) Record(ctx context.Context, summary pipeline.Summary) error {
	if summary.RunID == "" {
		return errors.New("record run: run id required")
	}
	return retryOnBusy(ctx, func() error {
		return s.record(ctx, summary)
	})
}

func (s *Store) record(ctx context.Context, summary pipeline.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	errMessage := ""
	if summary.Err != nil {
		errMessage = summary.Err.Error()
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO runs (
		id, started_at, finished_at, manifest_path, mode, output_order, seed, status,
		error_kind, error_message, rows_read, rows_valid, cuts_extracted, cuts_failed,
		cuts_skipped, outputs_attempted, archived, close_failures
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.StartedAt.UTC().Format(time.RFC3339Nano),
		summary.FinishedAt.UTC().Format(time.RFC3339Nano),
		summary.ManifestPath,
		string(summary.Plan.Mode),
		string(summary.Plan.Order),
		summary.Plan.Seed,
		string(summary.Status),
		string(summary.ErrorKind()),
		errMessage,
		summary.RowsRead,
		summary.RowsValid,
		summary.CutsExtracted,
		summary.CutsFailed,
		summary.CutsSkipped,
		summary.OutputsAttempted,
		summary.Archived,
		summary.Ledger.Failed(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, g := range summary.Groups {
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_groups (
			run_id, position, group_key, source_path, resolved, open_failed, extracted, failed, skipped
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			summary.RunID, i, g.Key, g.SourcePath, boolInt(g.Resolved), boolInt(g.OpenFailed),
			g.Extracted, g.Failed, g.Skipped,
		); err != nil {
			return fmt.Errorf("insert group %q: %w", g.Key, err)
		}
	}
	for i, path := range summary.Outputs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_outputs (run_id, position, path) VALUES (?, ?, ?)",
			summary.RunID, i, path,
		); err != nil {
			return fmt.Errorf("insert output: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT r.id, r.started_at, r.finished_at, r.manifest_path, r.mode, r.output_order,
		r.seed, r.status, r.error_kind, r.error_message, r.rows_read, r.rows_valid,
		r.cuts_extracted, r.cuts_failed, r.cuts_skipped, r.outputs_attempted,
		(SELECT COUNT(1) FROM run_outputs o WHERE o.run_id = r.id),
		r.archived, r.close_failures
		FROM runs r ORDER BY r.started_at DESC, r.id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run               Run
			started, finished string
		)
		if err := rows.Scan(
			&run.ID, &started, &finished, &run.ManifestPath, &run.Mode, &run.Order,
			&run.Seed, &run.Status, &run.ErrorKind, &run.ErrorMessage, &run.RowsRead, &run.RowsValid,
			&run.CutsExtracted, &run.CutsFailed, &run.CutsSkipped, &run.OutputsAttempted,
			&run.OutputsWritten, &run.Archived, &run.CloseFailures,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Outputs returns the files written by runID in write order.
func (s *Store) Outputs(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path FROM run_outputs WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Prune deletes runs that started before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return affected, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

var _ pipeline.Recorder = (*Store)(nil)
