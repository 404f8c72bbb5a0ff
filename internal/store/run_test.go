package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/parity/internal/compare"
	"github.com/roach88/parity/internal/fixture"
	"github.com/roach88/parity/internal/parser"
	"github.com/roach88/parity/internal/testutil"
	"github.com/roach88/parity/internal/tree"
)

func sampleVerdicts() []compare.Verdict {
	return []compare.Verdict{
		{
			Path:      "basics/simple-var.src",
			Name:      "basics/simple-var.src",
			Case:      compare.CaseBothAccepted,
			Pass:      true,
			Reference: tree.Object{"type": "Program", "body": tree.Array{}},
			Candidate: tree.Object{"type": "Program", "body": tree.Array{}},
		},
		{
			Path:       "errors/dup-param.src",
			Name:       "errors/dup-param.src (candidate did not error)",
			Case:       compare.CaseCandidateAccepted,
			Divergence: compare.DivergenceCandidateDidNotError,
			Message:    "reference rejected with SyntaxError: Argument name clash (2:14); candidate did not error",
			Reference:  &parser.ErrorDescriptor{Kind: "SyntaxError", Message: "Argument name clash", Line: 2, Column: 14},
		},
		{
			Path:      "errors/unexpected.src",
			Name:      "errors/unexpected.src",
			Case:      compare.CaseBothRejected,
			Pass:      true,
			Reference: "SyntaxError",
			Candidate: "SyntaxError",
		},
	}
}

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := s.NewRun("reference", "candidate")
	run.Problems = []fixture.Problem{{Entry: 3, Spec: "gone/**", Severity: fixture.SeverityWarning, Message: "no fixtures match gone/**"}}

	written, err := s.WriteRun(ctx, run, sampleVerdicts())
	require.NoError(t, err)
	assert.Equal(t, "run-0001", written.ID)
	assert.Equal(t, 3, written.Total)
	assert.Equal(t, 2, written.Passed)
	assert.Equal(t, 1, written.Failed)

	got, err := s.ReadRun(ctx, "run-0001")
	require.NoError(t, err)
	assert.Equal(t, "reference", got.Reference)
	assert.Equal(t, "candidate", got.Candidate)
	assert.True(t, testutil.Epoch.Equal(got.StartedAt))
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, run.Problems, got.Problems)

	verdicts, err := s.ReadVerdicts(ctx, "run-0001")
	require.NoError(t, err)
	require.Len(t, verdicts, 3)

	assert.Equal(t, "basics/simple-var.src", verdicts[0].Path)
	assert.True(t, verdicts[0].Pass)
	assert.Equal(t, tree.Object{"type": "Program", "body": tree.Array{}}, verdicts[0].Reference)

	assert.Equal(t, compare.CaseCandidateAccepted, verdicts[1].Case)
	assert.Equal(t, compare.DivergenceCandidateDidNotError, verdicts[1].Divergence)
	assert.Equal(t, tree.Object{
		"kind":    "SyntaxError",
		"message": "Argument name clash",
		"line":    float64(2),
		"column":  float64(14),
	}, verdicts[1].Reference)
	assert.Nil(t, verdicts[1].Candidate)

	assert.Equal(t, "SyntaxError", verdicts[2].Reference)
}

func TestWriteRun_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := Run{ID: "fixed", StartedAt: testutil.Epoch, Reference: "a", Candidate: "b"}
	_, err := s.WriteRun(ctx, run, sampleVerdicts())
	require.NoError(t, err)

	_, err = s.WriteRun(ctx, run, sampleVerdicts())
	require.Error(t, err)

	// The failed transaction left nothing behind.
	verdicts, err := s.ReadVerdicts(ctx, "fixed")
	require.NoError(t, err)
	assert.Len(t, verdicts, 3)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.WriteRun(ctx, s.NewRun("ref", "cand"), sampleVerdicts()[:i+1])
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-0003", runs[0].ID)
	assert.Equal(t, "run-0002", runs[1].ID)
	assert.Equal(t, "run-0001", runs[2].ID)
	assert.Equal(t, 3, runs[0].Total)
	assert.Equal(t, time.Second, runs[0].StartedAt.Sub(runs[1].StartedAt))

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-0003", limited[0].ID)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestReadRun_Prefix(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"0193a1-aaaa", "0193a1-bbbb", "0193b2-cccc"} {
		_, err := s.WriteRun(ctx, Run{ID: id, StartedAt: testutil.Epoch, Reference: "r", Candidate: "c"}, nil)
		require.NoError(t, err)
	}

	run, err := s.ReadRun(ctx, "0193b2")
	require.NoError(t, err)
	assert.Equal(t, "0193b2-cccc", run.ID)

	run, err = s.ReadRun(ctx, "0193a1-bbbb")
	require.NoError(t, err)
	assert.Equal(t, "0193a1-bbbb", run.ID)

	_, err = s.ReadRun(ctx, "0193a1")
	assert.True(t, errors.Is(err, ErrAmbiguousRunID))

	_, err = s.ReadRun(ctx, "ffff")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	_, err = s.ReadRun(ctx, "")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestFixtureHistory(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := sampleVerdicts()
	_, err := s.WriteRun(ctx, s.NewRun("ref", "cand"), first)
	require.NoError(t, err)

	second := sampleVerdicts()
	second[1].Pass = true
	second[1].Case = compare.CaseBothRejected
	second[1].Name = second[1].Path
	second[1].Divergence = ""
	second[1].Message = ""
	_, err = s.WriteRun(ctx, s.NewRun("ref", "cand"), second)
	require.NoError(t, err)

	history, err := s.FixtureHistory(ctx, "errors/dup-param.src", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "run-0002", history[0].RunID)
	assert.True(t, history[0].Verdict.Pass)
	assert.Equal(t, "run-0001", history[1].RunID)
	assert.False(t, history[1].Verdict.Pass)
	assert.True(t, history[1].StartedAt.Before(history[0].StartedAt))

	none, err := s.FixtureHistory(ctx, "nope.src", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPrune(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := s.WriteRun(ctx, s.NewRun("ref", "cand"), sampleVerdicts())
		require.NoError(t, err)
	}

	removed, err := s.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-0004", runs[0].ID)

	// Verdicts of pruned runs are gone too.
	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM verdicts WHERE run_id = 'run-0001'").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestUUIDGenerator_SortsByTime(t *testing.T) {
	var g UUIDGenerator
	a := g.NewID()
	time.Sleep(2 * time.Millisecond)
	b := g.NewID()

	assert.Len(t, a, 36)
	assert.Less(t, a, b)
}
