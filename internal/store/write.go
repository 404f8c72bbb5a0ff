package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/parity/internal/compare"
	"github.com/roach88/parity/internal/fixture"
)

// Run is the header of a stored harness run.
type Run struct {
	ID        string            `json:"id"`
	StartedAt time.Time         `json:"started_at"`
	Reference string            `json:"reference"`
	Candidate string            `json:"candidate"`
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Problems  []fixture.Problem `json:"problems,omitempty"`
}

// NewRun allocates a run header with a fresh ID and the current time.
func (s *Store) NewRun(reference, candidate string) Run {
	return Run{
		ID:        s.ids.NewID(),
		StartedAt: s.clock.Now().UTC().Truncate(time.Second),
		Reference: reference,
		Candidate: candidate,
	}
}

// WriteRun stores a run and its verdicts in one transaction. Verdicts are
// numbered in the order given. The run's counters are recomputed from
// verdicts.
func (s *Store) WriteRun(ctx context.Context, run Run, verdicts []compare.Verdict) (Run, error) {
	run.Total, run.Passed, run.Failed = 0, 0, 0
	for _, v := range verdicts {
		run.Total++
		if v.Pass {
			run.Passed++
		} else {
			run.Failed++
		}
	}

	problems, err := marshalProblems(run.Problems)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, reference, candidate, total, passed, failed, problems)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.Reference,
		run.Candidate,
		run.Total,
		run.Passed,
		run.Failed,
		problems,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO verdicts
		(run_id, seq, path, name, outcome, pass, divergence, message, diff, reference, candidate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("write run: prepare: %w", err)
	}
	defer stmt.Close()

	for i, v := range verdicts {
		ref, err := marshalPayload(v.Reference)
		if err != nil {
			return Run{}, fmt.Errorf("write verdict %s: %w", v.Path, err)
		}
		cand, err := marshalPayload(v.Candidate)
		if err != nil {
			return Run{}, fmt.Errorf("write verdict %s: %w", v.Path, err)
		}

		_, err = stmt.ExecContext(ctx,
			run.ID,
			i,
			v.Path,
			v.Name,
			string(v.Case),
			boolToInt(v.Pass),
			v.Divergence,
			v.Message,
			v.Diff,
			ref,
			cand,
		)
		if err != nil {
			return Run{}, fmt.Errorf("write verdict %s: %w", v.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

// Prune deletes all but the newest keep runs and returns how many were
// removed. Their verdicts go with them.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs
		WHERE id NOT IN (
			SELECT id FROM runs
			ORDER BY started_at DESC, id COLLATE BINARY DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: rows affected: %w", err)
	}
	return n, nil
}
