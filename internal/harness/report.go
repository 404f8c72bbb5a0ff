package harness

import (
	"github.com/roach88/parity/internal/compare"
	"github.com/roach88/parity/internal/fixture"
)

// Summary counts verdicts.
type Summary struct {
	Total  int                  `json:"total"`
	Passed int                  `json:"passed"`
	Failed int                  `json:"failed"`
	ByCase map[compare.Case]int `json:"by_case"`
}

// Report is the outcome of one harness run.
type Report struct {
	Reference string            `json:"reference"`
	Candidate string            `json:"candidate"`
	Problems  []fixture.Problem `json:"problems,omitempty"`
	Verdicts  []compare.Verdict `json:"verdicts"`
	Summary   Summary           `json:"summary"`
}

// NewReport builds a report and its summary.
func NewReport(reference, candidate string, problems []fixture.Problem, verdicts []compare.Verdict) *Report {
	if verdicts == nil {
		verdicts = []compare.Verdict{}
	}
	r := &Report{
		Reference: reference,
		Candidate: candidate,
		Problems:  problems,
		Verdicts:  verdicts,
		Summary:   Summary{ByCase: make(map[compare.Case]int)},
	}
	for _, v := range verdicts {
		r.Summary.Total++
		r.Summary.ByCase[v.Case]++
		if v.Pass {
			r.Summary.Passed++
		} else {
			r.Summary.Failed++
		}
	}
	return r
}

// Pass reports whether every verdict passed and every spec entry resolved.
// Warnings do not fail a run.
func (r *Report) Pass() bool {
	if r.Summary.Failed > 0 {
		return false
	}
	for _, p := range r.Problems {
		if p.Severity == fixture.SeverityError {
			return false
		}
	}
	return true
}

// Failures returns the failing verdicts in declared order.
func (r *Report) Failures() []compare.Verdict {
	var out []compare.Verdict
	for _, v := range r.Verdicts {
		if !v.Pass {
			out = append(out, v)
		}
	}
	return out
}
