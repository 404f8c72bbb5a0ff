package compare

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/parity/internal/normalize"
	"github.com/roach88/parity/internal/parser"
)

// Comparator classifies pair-runs into verdicts.
type Comparator struct {
	normalizer *normalize.Normalizer
}

// New creates a comparator that projects reference trees with n.
// A nil normalizer means normalize.Default().
func New(n *normalize.Normalizer) *Comparator {
	if n == nil {
		n = normalize.Default()
	}
	return &Comparator{normalizer: n}
}

// Compare decides the verdict for one fixture.
//
//	reference  candidate  verdict
//	error      tree       FAIL (candidate did not error)
//	error      error      PASS iff kinds are equal
//	tree       error      FAIL (reference did not error)
//	tree       tree       PASS iff normalized trees are equal
//
// The reference tree is normalized; the candidate tree only loses its
// root span fields. Neither outcome is modified.
func (c *Comparator) Compare(path string, ref, cand parser.Outcome) Verdict {
	switch {
	case ref.Failed() && !cand.Failed():
		return Verdict{
			Path:       path,
			Name:       divergenceName(path, DivergenceCandidateDidNotError),
			Case:       CaseCandidateAccepted,
			Divergence: DivergenceCandidateDidNotError,
			Reference:  ref.Err,
			Message:    fmt.Sprintf("reference rejected with %s; candidate did not error", ref.Err),
		}

	case ref.Failed() && cand.Failed():
		v := Verdict{
			Path:      path,
			Name:      path,
			Case:      CaseBothRejected,
			Reference: ref.Err.Kind,
			Candidate: cand.Err.Kind,
			Pass:      ref.Err.Kind == cand.Err.Kind,
		}
		if !v.Pass {
			v.Message = fmt.Sprintf("error kinds differ: reference %s, candidate %s", ref.Err.Kind, cand.Err.Kind)
			v.Diff = cmp.Diff(ref.Err.Kind, cand.Err.Kind)
		}
		return v

	case !ref.Failed() && cand.Failed():
		return Verdict{
			Path:       path,
			Name:       divergenceName(path, DivergenceReferenceDidNotError),
			Case:       CaseCandidateRejected,
			Divergence: DivergenceReferenceDidNotError,
			Candidate:  cand.Err,
			Message:    fmt.Sprintf("candidate rejected with %s; reference did not error", cand.Err),
		}

	default:
		return c.compareTrees(path, ref, cand)
	}
}

func (c *Comparator) compareTrees(path string, ref, cand parser.Outcome) Verdict {
	v := Verdict{Path: path, Name: path, Case: CaseBothAccepted}

	if ref.AST == nil || cand.AST == nil {
		v.Message = fmt.Sprintf("missing tree (reference %t, candidate %t)", ref.AST != nil, cand.AST != nil)
		return v
	}

	refTree := c.normalizer.Normalize(ref.AST)
	candTree := c.normalizer.StripRoot(cand.AST)
	v.Reference = refTree
	v.Candidate = candTree

	if diff := cmp.Diff(refTree, candTree); diff != "" {
		v.Message = "trees differ"
		v.Diff = diff
		return v
	}

	v.Pass = true
	return v
}

func divergenceName(path, divergence string) string {
	return fmt.Sprintf("%s (%s)", path, divergence)
}
