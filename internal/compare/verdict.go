package compare

import (
	"fmt"
)

// Case classifies the combined outcome of a reference/candidate pair-run.
type Case string

const (
	// CaseBothAccepted: both parsers produced trees; passes when the
	// normalized trees are structurally equal.
	CaseBothAccepted Case = "both_accepted"

	// CaseBothRejected: both parsers rejected; passes when the error kinds
	// are equal. Messages and positions are not compared.
	CaseBothRejected Case = "both_rejected"

	// CaseCandidateAccepted: the reference rejected but the candidate
	// produced a tree. Always fails.
	CaseCandidateAccepted Case = "candidate_accepted"

	// CaseCandidateRejected: the reference produced a tree but the
	// candidate rejected. Always fails.
	CaseCandidateRejected Case = "candidate_rejected"

	// CaseFixtureError: the fixture could not be loaded, so neither parser
	// ran. Always fails and is attributed to file access.
	CaseFixtureError Case = "fixture_error"
)

// Divergence labels for the two mismatched-failure cases.
const (
	DivergenceCandidateDidNotError = "candidate did not error"
	DivergenceReferenceDidNotError = "reference did not error"
)

// Verdict is the single, final result for one fixture.
type Verdict struct {
	// Path is the corpus-relative fixture path.
	Path string `json:"path"`

	// Name labels the result: the path, extended with the divergence for
	// the two mismatched-failure cases.
	Name string `json:"name"`

	Case Case `json:"case"`
	Pass bool `json:"pass"`

	// Divergence names the side that diverged, for CaseCandidateAccepted
	// and CaseCandidateRejected.
	Divergence string `json:"divergence,omitempty"`

	// Reference and Candidate carry what was compared: normalized trees,
	// error kinds, or error descriptors for the mismatched-failure cases.
	Reference any `json:"reference,omitempty"`
	Candidate any `json:"candidate,omitempty"`

	// Message is a one-line explanation of a failure.
	Message string `json:"message,omitempty"`

	// Diff is a go-cmp rendering of the difference (-reference +candidate).
	Diff string `json:"diff,omitempty"`
}

// String renders a one-line summary.
func (v Verdict) String() string {
	if v.Pass {
		return fmt.Sprintf("PASS %s", v.Name)
	}
	return fmt.Sprintf("FAIL %s: %s", v.Name, v.Message)
}

// FixtureError builds the verdict for a fixture whose source could not be
// read. The failure is attributed to file access, not to either parser.
func FixtureError(path string, err error) Verdict {
	return Verdict{
		Path:    path,
		Name:    path,
		Case:    CaseFixtureError,
		Pass:    false,
		Message: fmt.Sprintf("fixture unavailable: %v", err),
	}
}
