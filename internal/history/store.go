// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records report runs in a SQLite database so later runs
// can resume from the latest emitted date.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bcb-report/pkg/types"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339Nano
)

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			report_type TEXT NOT NULL,
			source_url TEXT,
			input_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			cutoff TEXT NOT NULL,
			last_row_date TEXT,
			scanned INTEGER NOT NULL,
			emitted INTEGER NOT NULL,
			untouched INTEGER NOT NULL,
			incomplete INTEGER NOT NULL,
			invalid_date INTEGER NOT NULL,
			not_after_cutoff INTEGER NOT NULL,
			ran_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_report_type ON runs(report_type)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts rec and returns it with ID set.
func (s *Store) Record(ctx context.Context, rec types.RunRecord) (types.RunRecord, error) {
	var lastRow sql.NullString
	if !rec.LastRowDate.IsZero() {
		lastRow = sql.NullString{String: rec.LastRowDate.Format(dateLayout), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (report_type, source_url, input_path, output_path, cutoff,
			last_row_date, scanned, emitted, untouched, incomplete, invalid_date,
			not_after_cutoff, ran_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.ReportType), rec.SourceURL, rec.InputPath, rec.OutputPath,
		rec.Cutoff.Format(dateLayout), lastRow,
		rec.Stats.Scanned, rec.Stats.Emitted, rec.Stats.Untouched, rec.Stats.Incomplete,
		rec.Stats.InvalidDate, rec.Stats.NotAfterCutoff,
		rec.RanAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return rec, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return rec, fmt.Errorf("reading run id: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// LastRowDate returns the latest emitted row date recorded for reportType.
// ok is false when no run has emitted a row yet.
func (s *Store) LastRowDate(ctx context.Context, reportType types.ReportType) (date time.Time, ok bool, err error) {
	var v sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT MAX(last_row_date) FROM runs WHERE report_type = ?`,
		string(reportType),
	).Scan(&v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("querying last row date: %w", err)
	}
	if !v.Valid {
		return time.Time{}, false, nil
	}
	date, err = time.Parse(dateLayout, v.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing stored date %q: %w", v.String, err)
	}
	return date, true, nil
}

// List returns recorded runs, newest first. An empty reportType lists all
// report types; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, reportType types.ReportType, limit int) ([]types.RunRecord, error) {
	query := `SELECT id, report_type, source_url, input_path, output_path, cutoff,
			last_row_date, scanned, emitted, untouched, incomplete, invalid_date,
			not_after_cutoff, ran_at
		FROM runs`
	var args []any
	if reportType != "" {
		query += ` WHERE report_type = ?`
		args = append(args, string(reportType))
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

func scanRun(rows *sql.Rows) (types.RunRecord, error) {
	var (
		rec                types.RunRecord
		reportType, cutoff string
		ranAt              string
		sourceURL, lastRow sql.NullString
	)
	if err := rows.Scan(&rec.ID, &reportType, &sourceURL, &rec.InputPath, &rec.OutputPath,
		&cutoff, &lastRow, &rec.Stats.Scanned, &rec.Stats.Emitted, &rec.Stats.Untouched,
		&rec.Stats.Incomplete, &rec.Stats.InvalidDate, &rec.Stats.NotAfterCutoff, &ranAt,
	); err != nil {
		return rec, fmt.Errorf("scanning run: %w", err)
	}

	rec.ReportType = types.ReportType(reportType)
	rec.SourceURL = sourceURL.String

	var errs []error
	var err error
	if rec.Cutoff, err = time.Parse(dateLayout, cutoff); err != nil {
		errs = append(errs, err)
	}
	if lastRow.Valid {
		if rec.LastRowDate, err = time.Parse(dateLayout, lastRow.String); err != nil {
			errs = append(errs, err)
		}
	}
	if rec.RanAt, err = time.Parse(timeLayout, ranAt); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return rec, fmt.Errorf("parsing run %d: %w", rec.ID, errors.Join(errs...))
	}
	return rec, nil
}
