package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"flightrec/internal/failure"
	"flightrec/internal/syncverify"
)

// Run is one recorded waypoint sync.
type Run struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Confirmed  int       `json:"confirmed"`
	Missing    int       `json:"missing"`
	Inaccurate int       `json:"inaccurate"`
	Passes     int       `json:"passes"`
	MaxError   float64   `json:"max_error_m"`
	Unresolved bool      `json:"unresolved"`
	Error      string    `json:"error,omitempty"`
}

// Outcome is a record left unconfirmed by a run.
type Outcome struct {
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	Alt            float64 `json:"alt"`
	Distance       float64 `json:"distance_m"`
	ElevationDelta int     `json:"elevation_delta_m"`
	Error          string  `json:"error,omitempty"`
}

// Journal is the sync history database.
type Journal struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal at path and applies migrations.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
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

	j := &Journal{db: db, path: path}
	if err := j.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Path returns the database file location.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// FromReport converts a sync report into a run and its residual outcomes.
func FromReport(source string, started, finished time.Time, report syncverify.Report, syncErr error) (Run, []Outcome) {
	run := Run{
		Source:     source,
		StartedAt:  started,
		FinishedAt: finished,
		Total:      report.Total,
		Confirmed:  report.ConfirmedCount,
		Missing:    len(report.Missing),
		Inaccurate: len(report.Inaccurate),
		Passes:     len(report.Passes),
		MaxError:   report.MaxObservedError,
		Unresolved: report.Unresolved,
	}
	if syncErr != nil {
		run.Error = syncErr.Error()
	}
	residual := report.Residual()
	outcomes := make([]Outcome, 0, len(residual))
	for _, o := range residual {
		out := Outcome{
			Name:           o.Record.Name,
			Status:         o.Status.String(),
			Lat:            o.Record.Lat,
			Lon:            o.Record.Lon,
			Alt:            o.Record.Alt,
			Distance:       o.Distance,
			ElevationDelta: o.ElevationDelta,
		}
		if o.UploadErr != nil {
			out.Error = o.UploadErr.Error()
		}
		outcomes = append(outcomes, out)
	}
	return run, outcomes
}

// RecordSync stores a run and its outcomes, assigning a run id when empty.
func (j *Journal) RecordSync(ctx context.Context, run Run, outcomes []Outcome) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return run, fmt.Errorf("begin record tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sync_runs (
            id, source, started_at, finished_at, total, confirmed, missing,
            inaccurate, passes, max_error, unresolved, error
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Source,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.Total,
		run.Confirmed,
		run.Missing,
		run.Inaccurate,
		run.Passes,
		run.MaxError,
		boolToInt(run.Unresolved),
		nullableString(run.Error),
	)
	if err != nil {
		return run, fmt.Errorf("insert run: %w", err)
	}
	for _, o := range outcomes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sync_outcomes (
                run_id, name, status, lat, lon, alt, distance, elevation_delta, error
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, o.Name, o.Status, o.Lat, o.Lon, o.Alt, o.Distance, o.ElevationDelta, nullableString(o.Error),
		)
		if err != nil {
			return run, fmt.Errorf("insert outcome %q: %w", o.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return run, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

const runColumns = `id, source, started_at, finished_at, total, confirmed, missing,
    inaccurate, passes, max_error, unresolved, error`

// Runs lists the most recent runs, newest first. A limit <= 0 lists all.
func (j *Journal) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FindRun resolves a run id or a unique prefix of one.
func (j *Journal) FindRun(ctx context.Context, prefix string) (Run, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Run{}, failure.Wrap(failure.ErrValidation, "journal", "find run", "empty run id", nil)
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM sync_runs WHERE substr(id, 1, ?) = ? LIMIT 2`, len(prefix), prefix)
	if err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return Run{}, failure.Wrap(failure.ErrNotFound, "journal", "find run", fmt.Sprintf("no run %q", prefix), nil)
	case 1:
		return matches[0], nil
	default:
		return Run{}, failure.Wrap(failure.ErrAmbiguous, "journal", "find run", fmt.Sprintf("run id %q is ambiguous", prefix), nil)
	}
}

// Outcomes lists the residual records of a run in insertion order.
func (j *Journal) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT name, status, lat, lon, alt, distance, elevation_delta, error
         FROM sync_outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		var errText sql.NullString
		if err := rows.Scan(&o.Name, &o.Status, &o.Lat, &o.Lon, &o.Alt, &o.Distance, &o.ElevationDelta, &errText); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Error = errText.String
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run               Run
		started, finished string
		unresolved        int
		errText           sql.NullString
	)
	err := s.Scan(&run.ID, &run.Source, &started, &finished, &run.Total, &run.Confirmed,
		&run.Missing, &run.Inaccurate, &run.Passes, &run.MaxError, &unresolved, &errText)
	if errors.Is(err, sql.ErrNoRows) {
		return run, err
	}
	if err != nil {
		return run, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.Unresolved = unresolved != 0
	run.Error = errText.String
	return run, nil
}

// Fixed-width timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
