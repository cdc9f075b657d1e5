package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on schema changes; the ledger is derived data, so
// a mismatched database is deleted and recreated by the operator.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different schema
// version.
var ErrSchemaMismatch = errors.New("run log schema version mismatch")

// ErrNoRuns indicates no run matched the query.
var ErrNoRuns = errors.New("no runs recorded")

const timeLayout = time.RFC3339

// Summary carries the per-run counters.
type Summary struct {
	Total      int
	Processed  int
	Enriched   int
	Unresolved int
	Skipped    int
}

// Run is one ledger entry. FinishedAt is zero while the run is open.
type Run struct {
	ID         string
	Task       string
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    Summary
}

// Outcome is one record's terminal state within a run.
type Outcome struct {
	RecordID int64
	Title    string
	Status   string
	Changed  bool
	NotedAt  time.Time
}

// Store manages the ledger database.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure run log directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run log db: %w", err)
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

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
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
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
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

// StartRun opens a new ledger entry for a task and returns it.
func (s *Store) StartRun(ctx context.Context, task string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Task:      task,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, task, started_at) VALUES (?, ?, ?)",
		run.ID, run.Task, run.StartedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	return run, nil
}

// FinishRun closes a ledger entry with its final counters.
func (s *Store) FinishRun(ctx context.Context, runID string, summary Summary) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, total = ?, processed = ?, enriched = ?, unresolved = ?, skipped = ?
		 WHERE id = ?`,
		time.Now().UTC().Truncate(time.Second).Format(timeLayout),
		summary.Total, summary.Processed, summary.Enriched, summary.Unresolved, summary.Skipped,
		runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: %w", ErrNoRuns)
	}
	return nil
}

// AddOutcome appends one record outcome under a run. Safe for concurrent use
// by pool workers.
func (s *Store) AddOutcome(ctx context.Context, runID string, outcome Outcome) error {
	notedAt := outcome.NotedAt
	if notedAt.IsZero() {
		notedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO record_outcomes (run_id, record_id, title, status, changed, noted_at) VALUES (?, ?, ?, ?, ?, ?)",
		runID, outcome.RecordID, outcome.Title, outcome.Status, boolToInt(outcome.Changed),
		notedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("add outcome: %w", err)
	}
	return nil
}

// LatestRun returns the most recently started run for a task, or ErrNoRuns.
func (s *Store) LatestRun(ctx context.Context, task string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, task, started_at, finished_at, total, processed, enriched, unresolved, skipped
		 FROM runs WHERE task = ? ORDER BY started_at DESC, rowid DESC LIMIT 1`, task)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	return run, err
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task, started_at, finished_at, total, processed, enriched, unresolved, skipped
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Outcomes returns a run's record outcomes in insertion order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT record_id, title, status, changed, noted_at FROM record_outcomes WHERE run_id = ? ORDER BY rowid", runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var o Outcome
		var changed int
		var notedAt string
		if err := rows.Scan(&o.RecordID, &o.Title, &o.Status, &changed, &notedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Changed = changed != 0
		o.NotedAt, _ = time.Parse(timeLayout, notedAt)
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	return outcomes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var started string
	var finished sql.NullString
	err := row.Scan(&run.ID, &run.Task, &started, &finished,
		&run.Summary.Total, &run.Summary.Processed, &run.Summary.Enriched,
		&run.Summary.Unresolved, &run.Summary.Skipped)
	if err != nil {
		return nil, err
	}
	run.StartedAt, _ = time.Parse(timeLayout, started)
	if finished.Valid {
		run.FinishedAt, _ = time.Parse(timeLayout, finished.String)
	}
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
