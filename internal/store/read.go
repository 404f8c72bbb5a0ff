package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/parity/internal/compare"
)

var (
	// ErrRunNotFound is returned when no run matches an ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID is returned when an ID prefix matches more than
	// one run.
	ErrAmbiguousRunID = errors.New("ambiguous run id")
)

// FixtureResult is one fixture's verdict in one stored run.
type FixtureResult struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Verdict   compare.Verdict `json:"verdict"`
}

// ListRuns returns the newest runs first. limit <= 0 means no limit.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, reference, candidate, total, passed, failed, problems
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
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

// ReadRun returns the run with the given ID. A unique ID prefix is
// accepted as well.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	if id == "" {
		return Run{}, fmt.Errorf("read run: %w", ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, reference, candidate, total, passed, failed, problems
		FROM runs
		WHERE id = ? OR substr(id, 1, ?) = ?
		ORDER BY (id = ?) DESC, id COLLATE BINARY ASC
		LIMIT 2
	`, id, len(id), id, id)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
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
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	switch {
	case len(matches) == 0:
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	case matches[0].ID == id:
		return matches[0], nil
	case len(matches) > 1:
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrAmbiguousRunID)
	default:
		return matches[0], nil
	}
}

// ReadVerdicts returns the verdicts of a run in declared fixture order.
//
// Returns an empty slice (not nil) if the run has no verdicts.
func (s *Store) ReadVerdicts(ctx context.Context, runID string) ([]compare.Verdict, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, name, outcome, pass, divergence, message, diff, reference, candidate
		FROM verdicts
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	verdicts := []compare.Verdict{}
	for rows.Next() {
		v, err := scanVerdict(rows)
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}
	return verdicts, nil
}

// FixtureHistory returns the verdicts recorded for one fixture path across
// runs, newest first. limit <= 0 means no limit.
func (s *Store) FixtureHistory(ctx context.Context, path string, limit int) ([]FixtureResult, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.started_at,
		       v.path, v.name, v.outcome, v.pass, v.divergence, v.message, v.diff, v.reference, v.candidate
		FROM verdicts v
		JOIN runs r ON v.run_id = r.id
		WHERE v.path = ?
		ORDER BY r.started_at DESC, r.id COLLATE BINARY DESC, v.seq ASC
		LIMIT ?
	`, path, limit)
	if err != nil {
		return nil, fmt.Errorf("query fixture history: %w", err)
	}
	defer rows.Close()

	results := []FixtureResult{}
	for rows.Next() {
		var (
			fr      FixtureResult
			started string
		)
		v, err := scanVerdict(rows, &fr.RunID, &started)
		if err != nil {
			return nil, err
		}
		fr.StartedAt, err = parseTime(started)
		if err != nil {
			return nil, err
		}
		fr.Verdict = v
		results = append(results, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixture history: %w", err)
	}
	return results, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run      Run
		started  string
		problems []byte
	)
	err := row.Scan(
		&run.ID,
		&started,
		&run.Reference,
		&run.Candidate,
		&run.Total,
		&run.Passed,
		&run.Failed,
		&problems,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	if run.StartedAt, err = parseTime(started); err != nil {
		return Run{}, err
	}
	if run.Problems, err = unmarshalProblems(problems); err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}
	return run, nil
}

// scanVerdict scans the verdict columns, preceded by any extra
// destinations the query selects first.
func scanVerdict(row scanner, prefix ...any) (compare.Verdict, error) {
	var (
		v         compare.Verdict
		outcome   string
		pass      int
		ref, cand []byte
	)
	dest := append(prefix,
		&v.Path,
		&v.Name,
		&outcome,
		&pass,
		&v.Divergence,
		&v.Message,
		&v.Diff,
		&ref,
		&cand,
	)
	if err := row.Scan(dest...); err != nil {
		return compare.Verdict{}, fmt.Errorf("scan verdict: %w", err)
	}

	v.Case = compare.Case(outcome)
	v.Pass = pass != 0

	var err error
	if v.Reference, err = unmarshalPayload(ref); err != nil {
		return compare.Verdict{}, fmt.Errorf("verdict %s: %w", v.Path, err)
	}
	if v.Candidate, err = unmarshalPayload(cand); err != nil {
		return compare.Verdict{}, fmt.Errorf("verdict %s: %w", v.Path, err)
	}
	return v, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
