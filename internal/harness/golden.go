package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/parity/internal/compare"
	"github.com/roach88/parity/internal/tree"
)

// Snapshot is the stable projection of a report used for golden files.
// Trees and diffs are left out: diff formatting is not stable across
// go-cmp versions.
type Snapshot struct {
	Reference string        `json:"reference"`
	Candidate string        `json:"candidate"`
	Verdicts  []VerdictLine `json:"verdicts"`
	Problems  []string      `json:"problems,omitempty"`
	Summary   Summary       `json:"summary"`
}

// VerdictLine is one verdict in a Snapshot.
type VerdictLine struct {
	Name       string       `json:"name"`
	Case       compare.Case `json:"case"`
	Pass       bool         `json:"pass"`
	Divergence string       `json:"divergence,omitempty"`
	Message    string       `json:"message,omitempty"`
}

// NewSnapshot projects r.
func NewSnapshot(r *Report) Snapshot {
	s := Snapshot{
		Reference: r.Reference,
		Candidate: r.Candidate,
		Verdicts:  make([]VerdictLine, len(r.Verdicts)),
		Summary:   r.Summary,
	}
	for i, v := range r.Verdicts {
		s.Verdicts[i] = VerdictLine{
			Name:       v.Name,
			Case:       v.Case,
			Pass:       v.Pass,
			Divergence: v.Divergence,
			Message:    v.Message,
		}
	}
	for _, p := range r.Problems {
		s.Problems = append(s.Problems, p.String())
	}
	return s
}

// AssertGolden compares the canonical JSON snapshot of a report against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, r *Report) error {
	t.Helper()

	data, err := tree.MarshalCanonical(NewSnapshot(r))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
